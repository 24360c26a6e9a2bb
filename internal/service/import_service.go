package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/dto"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/repository"
	"github.com/mathraaj222-gif/trainmice-mvp-production/pkg/redis"
)

// ── 历史课程表导入模块业务错误 ──

var (
	ErrImportUnsupportedFormat = errors.New("不支持的导入文件格式")
	ErrImportUnsupportedMode   = errors.New("不支持的导入模式")
	ErrImportEmptyFile         = errors.New("导入文件中没有数据行")
)

// ImportMode 导入的身份决策模式
type ImportMode string

const (
	// ImportModeSkip 已存在的行跳过，绝不覆盖（insert-only 历史源）
	ImportModeSkip ImportMode = "skip"
	// ImportModeUpsert 不存在则创建，存在则更新
	ImportModeUpsert ImportMode = "upsert"
)

// 批次状态机：Pending → Connected → Processing → Summarized
// 没有重试态：失败的批次整体重跑，身份判定幂等保证重跑安全
type importPhase string

const (
	phasePending    importPhase = "pending"
	phaseConnected  importPhase = "connected"
	phaseProcessing importPhase = "processing"
	phaseSummarized importPhase = "summarized"
)

// 跳过原因分类
const (
	skipCourseNotFound   = "course_not_found"
	skipInvalidDayNumber = "invalid_day_number"
	skipAlreadyExists    = "already_exists"
	skipEmptyModule      = "empty_module"
)

// legacyRow 一行历史导出数据（表头名 → 原始文本）
type legacyRow map[string]string

// ── ImportService 接口 ──────────────────────────────────────
//
// 设计说明：
//   - 行与行完全独立，严格顺序处理：后行的重复检测可能依赖
//     前行刚写入的数据（同一批次内的同键行）
//   - 任何一行的失败都不会中断批次；畸形字段归一为默认值，
//     引用失败与存储失败记录后继续
//   - 同一课程的导入假定独占访问，不支持并发批次
// ─────────────────────────────────────────────────────────────

// ImportService 历史课程表导入业务接口
type ImportService interface {
	// ImportSchedules 导入历史课程表。format 取 "csv" 或 "xlsx"
	ImportSchedules(ctx context.Context, reader io.Reader, format string, mode ImportMode) (*dto.ImportSummaryResponse, error)
}

type importService struct {
	repo   *repository.Repository
	cache  *redis.Client // 可为 nil（Redis 降级运行）
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例
func NewImportService(repo *repository.Repository, cache *redis.Client, logger *zap.Logger) ImportService {
	return &importService{repo: repo, cache: cache, logger: logger}
}

func (s *importService) ImportSchedules(ctx context.Context, reader io.Reader, format string, mode ImportMode) (*dto.ImportSummaryResponse, error) {
	if mode != ImportModeSkip && mode != ImportModeUpsert {
		return nil, ErrImportUnsupportedMode
	}

	phase := phasePending
	s.logger.Info("导入批次开始", zap.String("phase", string(phase)), zap.String("mode", string(mode)))

	// 读取全部数据行
	var rows []legacyRow
	var err error
	switch strings.ToLower(format) {
	case "csv":
		rows, err = readLegacyCSV(reader)
	case "xlsx":
		rows, err = readLegacyXLSX(reader)
	default:
		return nil, ErrImportUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrImportEmptyFile
	}

	phase = phaseConnected
	s.logger.Info("导入文件解析完成", zap.String("phase", string(phase)), zap.Int("rows", len(rows)))

	summary := &dto.ImportSummaryResponse{
		Mode:      string(mode),
		TotalRows: len(rows),
	}

	// 严格顺序处理：行内失败只影响该行
	phase = phaseProcessing
	touched := make(map[string]bool)
	for i, row := range rows {
		rowNum := i + 1
		s.reconcileRow(ctx, row, rowNum, mode, summary, touched)
	}

	// 写入过数据的课程失效其视图缓存
	if s.cache != nil {
		for courseID := range touched {
			if err := s.cache.InvalidateTimetable(ctx, courseID); err != nil {
				s.logger.Warn("失效课程表缓存失败", zap.Error(err), zap.String("course_id", courseID))
			}
		}
	}

	phase = phaseSummarized
	s.logger.Info("导入批次完成",
		zap.String("phase", string(phase)),
		zap.Int("imported", summary.ImportedCount),
		zap.Int("updated", summary.UpdatedCount),
		zap.Int("skipped", summary.SkippedCount),
		zap.Int("errored", summary.ErroredCount),
	)

	return summary, nil
}

// ════════════════════════════════════════════════════════════
// reconcileRow — 单行对账
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 课程外键校验（course_id，缺失时回退 course_code 自然键）
//   2. day_number 必须是正整数
//   3. 时间/列表字段归一化（容错，不报错）
//   4. 时长：优先行内显式正整数，否则按起止时间推导
//   5. 身份决策：显式 UUID 优先，其次 (课程, 天, 开始时间, 标题)
//      自然键；按模式决定跳过或更新

func (s *importService) reconcileRow(ctx context.Context, row legacyRow, rowNum int, mode ImportMode, summary *dto.ImportSummaryResponse, touched map[string]bool) {
	course, ok := s.resolveCourse(ctx, row)
	if !ok {
		s.skip(summary, rowNum, skipCourseNotFound)
		return
	}

	day, err := strconv.Atoi(strings.TrimSpace(row["day_number"]))
	if err != nil || day < 1 {
		s.skip(summary, rowNum, skipInvalidDayNumber)
		return
	}

	startTime := NormalizeClockTime(row["start_time"])
	endTime := NormalizeClockTime(row["end_time"])
	duration := resolveDuration(row["duration_minutes"], startTime, endTime)

	// 竖线分隔的多模块串拆为多行，每模块一条记录
	titles := ParseModuleList(row["module_title"])
	cleaned := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = CollapseWhitespace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		s.skip(summary, rowNum, skipEmptyModule)
		return
	}

	submodules := ParseSubmoduleList(row["submodule_title"])

	explicitID := strings.TrimSpace(row["id"])
	if _, err := uuid.Parse(explicitID); err != nil {
		explicitID = "" // 非法标识符视为无标识符
	}

	created, updated := 0, 0
	for _, title := range cleaned {
		entry := model.ScheduleEntry{
			EntryID:         explicitID,
			CourseID:        course.CourseID,
			DayNumber:       day,
			StartTime:       startTime,
			EndTime:         endTime,
			ModuleTitle:     title,
			Submodules:      model.StringArray(submodules),
			DurationMinutes: duration,
		}
		// 显式 ID 只能属于一条记录；拆出的后续模块走自然键
		explicitID = ""

		outcome, err := s.reconcileEntry(ctx, &entry, mode)
		if err != nil {
			s.logger.Warn("导入行写入失败",
				zap.Int("row", rowNum),
				zap.String("module", title),
				zap.Error(err),
			)
			summary.ErroredCount++
			summary.Errored = append(summary.Errored, dto.ErroredRow{Row: rowNum, Message: err.Error()})
			if created > 0 || updated > 0 {
				touched[course.CourseID] = true
			}
			return
		}
		switch outcome {
		case outcomeCreated:
			created++
		case outcomeUpdated:
			updated++
		}
	}

	switch {
	case created > 0:
		summary.ImportedCount++
		touched[course.CourseID] = true
	case updated > 0:
		summary.UpdatedCount++
		touched[course.CourseID] = true
	default:
		s.skip(summary, rowNum, skipAlreadyExists)
	}
}

type entryOutcome int

const (
	outcomeSkipped entryOutcome = iota
	outcomeCreated
	outcomeUpdated
)

// reconcileEntry 对单条候选记录做幂等的创建/更新/跳过决策
func (s *importService) reconcileEntry(ctx context.Context, entry *model.ScheduleEntry, mode ImportMode) (entryOutcome, error) {
	existing, err := s.findExisting(ctx, entry)
	if err != nil {
		return outcomeSkipped, err
	}

	if existing == nil {
		if err := s.repo.ScheduleEntry.Create(ctx, entry); err != nil {
			return outcomeSkipped, fmt.Errorf("创建课程表行失败: %w", err)
		}
		return outcomeCreated, nil
	}

	if mode == ImportModeSkip {
		return outcomeSkipped, nil
	}

	existing.DayNumber = entry.DayNumber
	existing.StartTime = entry.StartTime
	existing.EndTime = entry.EndTime
	existing.ModuleTitle = entry.ModuleTitle
	existing.Submodules = entry.Submodules
	existing.DurationMinutes = entry.DurationMinutes
	if err := s.repo.ScheduleEntry.Update(ctx, existing); err != nil {
		return outcomeSkipped, fmt.Errorf("更新课程表行失败: %w", err)
	}
	return outcomeUpdated, nil
}

// findExisting 显式 ID 优先，其次自然键；都未命中返回 nil
func (s *importService) findExisting(ctx context.Context, entry *model.ScheduleEntry) (*model.ScheduleEntry, error) {
	if entry.EntryID != "" {
		existing, err := s.repo.ScheduleEntry.GetByID(ctx, entry.EntryID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	existing, err := s.repo.ScheduleEntry.GetByNaturalKey(ctx,
		entry.CourseID, entry.DayNumber, entry.StartTime, entry.ModuleTitle)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

// resolveCourse 课程外键校验：course_id 优先，缺失或未命中时
// 回退 course_code 自然键
func (s *importService) resolveCourse(ctx context.Context, row legacyRow) (*model.Course, bool) {
	if id := strings.TrimSpace(row["course_id"]); id != "" {
		if course, err := s.repo.Course.GetByID(ctx, id); err == nil {
			return course, true
		}
	}
	if code := strings.TrimSpace(row["course_code"]); code != "" {
		if course, err := s.repo.Course.GetByCode(ctx, code); err == nil {
			return course, true
		}
	}
	return nil, false
}

func (s *importService) skip(summary *dto.ImportSummaryResponse, rowNum int, reason string) {
	summary.SkippedCount++
	summary.Skipped = append(summary.Skipped, dto.SkippedRow{Row: rowNum, Reason: reason})
}

// resolveDuration 优先行内显式正整数，否则按归一化后的起止时间推导
func resolveDuration(raw, startTime, endTime string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		return n
	}
	return ClockDurationMinutes(startTime, endTime)
}

// ── 文件读取 ──

// readLegacyCSV 读取 CSV：首行为表头，列数不齐的行按短行容忍
func readLegacyCSV(reader io.Reader) ([]legacyRow, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return recordsToRows(records), nil
}

// readLegacyXLSX 读取 Excel：取第一个工作表，首行为表头
func readLegacyXLSX(reader io.Reader) ([]legacyRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("解析 Excel 失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	return recordsToRows(records), nil
}

// recordsToRows 首行作为表头（小写、去空白），其余行映射为 legacyRow
func recordsToRows(records [][]string) []legacyRow {
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]legacyRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(legacyRow, len(header))
		empty := true
		for i, h := range header {
			if h == "" {
				continue
			}
			val := ""
			if i < len(record) {
				val = record[i]
			}
			row[h] = val
			if strings.TrimSpace(val) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}
