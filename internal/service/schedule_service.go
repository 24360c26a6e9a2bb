package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/dto"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/repository"
	"github.com/mathraaj222-gif/trainmice-mvp-production/pkg/redis"
)

// ── 课程表模块业务错误 ──

var (
	ErrScheduleCourseNotFound = errors.New("课程不存在")
	ErrScheduleSaveFailed     = errors.New("课程表保存失败")
)

// ── ScheduleService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 读取（GetTimetable）每次从扁平行重新分组出层级视图，
//     视图 JSON 经 Redis 做读穿缓存，保存/导入/重算后失效
//   - 保存（SaveTimetable）采用整表替换策略：压平 → 丢弃空标题
//     模块 → 单事务内"删旧 + 插新"。失败时旧课程表保持原样
//   - 重算模板（Retemplate）是时长变更后的显式调用，不做任何
//     隐式联动；落在新模板外的行被丢弃并在响应中报告
// ─────────────────────────────────────────────────────────────

// ScheduleService 课程表模块业务接口
type ScheduleService interface {
	// GetTimetable 获取课程表层级视图
	GetTimetable(ctx context.Context, courseID string) (*dto.TimetableResponse, error)
	// SaveTimetable 整表替换保存课程表
	SaveTimetable(ctx context.Context, courseID string, req *dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	// Retemplate 按课程当前时长重算模板并重分组持久化
	Retemplate(ctx context.Context, courseID string) (*dto.RetemplateResponse, error)
}

type scheduleService struct {
	repo     *repository.Repository
	cache    *redis.Client // 可为 nil（Redis 降级运行）
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) ScheduleService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &scheduleService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// ════════════════════════════════════════════════════════════
// GetTimetable — 获取课程表层级视图
// ════════════════════════════════════════════════════════════

func (s *scheduleService) GetTimetable(ctx context.Context, courseID string) (*dto.TimetableResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// 缓存命中直接返回
	if s.cache != nil {
		if cached, err := s.cache.GetTimetable(ctx, courseID); err == nil && cached != "" {
			var resp dto.TimetableResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	entries, err := s.repo.ScheduleEntry.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程表明细失败", zap.Error(err))
		return nil, err
	}

	tmpl := ResolveSessionTemplate(course.DurationValue, course.DurationUnit)
	tree := GroupEntries(entries, tmpl)
	resp := toTimetableResponse(courseID, tree)

	// 写缓存（尽力而为，失败不影响读取）
	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetTimetable(ctx, courseID, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("写入课程表缓存失败", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// ════════════════════════════════════════════════════════════
// SaveTimetable — 整表替换保存
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 按模板建骨架树，将请求中的节次填入（模板外节次被忽略，
//      与分组时的丢弃策略一致）
//   2. 压平为扁平行，丢弃空标题模块（调用方策略，不属于变换层）
//   3. 事务内整表替换；失败时旧数据保持原样
//   4. 失效视图缓存

func (s *scheduleService) SaveTimetable(ctx context.Context, courseID string, req *dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	tmpl := ResolveSessionTemplate(course.DurationValue, course.DurationUnit)
	tree := GroupEntries(nil, tmpl)

	for _, sess := range req.Sessions {
		key := SessionKey{DayNumber: sess.DayNumber, StartTime: sess.StartTime}
		node, ok := tree.Sessions[key]
		if !ok {
			continue // 模板外节次
		}
		for _, mod := range sess.Modules {
			node.Modules = append(node.Modules, ModuleNode{
				ModuleID:   uuid.New().String(),
				Title:      mod.Title,
				Submodules: mod.Submodules,
			})
		}
	}

	flat := tree.Flatten()

	// 空标题模块在编辑期间合法，持久化前丢弃
	entries := make([]model.ScheduleEntry, 0, len(flat))
	for _, e := range flat {
		if e.ModuleTitle == "" {
			continue
		}
		e.CourseID = courseID
		entries = append(entries, e)
	}

	if err := s.repo.ScheduleEntry.ReplaceByCourse(ctx, courseID, entries); err != nil {
		s.logger.Error("课程表整表替换失败", zap.Error(err), zap.String("course_id", courseID))
		return nil, fmt.Errorf("%w: %v", ErrScheduleSaveFailed, err)
	}

	s.invalidateCache(ctx, courseID)

	return &dto.SaveTimetableResponse{SavedCount: len(entries)}, nil
}

// ════════════════════════════════════════════════════════════
// Retemplate — 时长变更后的显式模板重算
// ════════════════════════════════════════════════════════════

func (s *scheduleService) Retemplate(ctx context.Context, courseID string) (*dto.RetemplateResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ScheduleEntry.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程表明细失败", zap.Error(err))
		return nil, err
	}

	tmpl := ResolveSessionTemplate(course.DurationValue, course.DurationUnit)
	tree, dropped := RegroupEntries(entries, tmpl)

	kept := tree.Flatten()
	for i := range kept {
		kept[i].CourseID = courseID
	}

	if err := s.repo.ScheduleEntry.ReplaceByCourse(ctx, courseID, kept); err != nil {
		s.logger.Error("模板重算持久化失败", zap.Error(err), zap.String("course_id", courseID))
		return nil, fmt.Errorf("%w: %v", ErrScheduleSaveFailed, err)
	}

	s.invalidateCache(ctx, courseID)

	resp := &dto.RetemplateResponse{
		DayCount:     tmpl.DayCount,
		SessionCount: tmpl.DayCount * len(tmpl.Slots),
		KeptCount:    len(kept),
		DroppedCount: len(dropped),
	}
	for _, e := range dropped {
		resp.Dropped = append(resp.Dropped, dto.DroppedEntry{
			DayNumber:   e.DayNumber,
			StartTime:   e.StartTime,
			ModuleTitle: e.ModuleTitle,
		})
	}

	if len(dropped) > 0 {
		s.logger.Warn("模板重算丢弃了模板外的行",
			zap.String("course_id", courseID),
			zap.Int("dropped", len(dropped)),
		)
	}

	return resp, nil
}

// ── 内部辅助 ──

func (s *scheduleService) getCourse(ctx context.Context, courseID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *scheduleService) invalidateCache(ctx context.Context, courseID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTimetable(ctx, courseID); err != nil {
		s.logger.Warn("失效课程表缓存失败", zap.Error(err), zap.String("course_id", courseID))
	}
}

func toTimetableResponse(courseID string, tree *TimetableTree) *dto.TimetableResponse {
	sessions := tree.OrderedSessions()
	views := make([]dto.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		modules := make([]dto.ModuleView, 0, len(sess.Modules))
		for _, mod := range sess.Modules {
			modules = append(modules, dto.ModuleView{
				ModuleID:   mod.ModuleID,
				Title:      mod.Title,
				Submodules: mod.Submodules,
			})
		}
		views = append(views, dto.SessionView{
			DayNumber:       sess.DayNumber,
			Name:            sess.Name,
			StartTime:       sess.StartTime,
			EndTime:         sess.EndTime,
			DurationMinutes: sess.DurationMinutes,
			Modules:         modules,
		})
	}
	return &dto.TimetableResponse{
		CourseID:     courseID,
		DayCount:     tree.Template.DayCount,
		SessionCount: len(views),
		Sessions:     views,
	}
}
