package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/dto"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound  = errors.New("课程不存在")
	ErrCourseCodeTaken = errors.New("课程编码已被占用")
)

// CourseService 课程模块业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	// Update 更新课程基本信息。修改时长不会隐式重算课程表，
	// 需要调用方显式触发 ScheduleService.Retemplate
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	// 课程编码唯一性检查
	if _, err := s.repo.Course.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrCourseCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := model.Course{
		Code:          req.Code,
		Title:         req.Title,
		Description:   req.Description,
		DurationValue: req.DurationValue,
		DurationUnit:  req.DurationUnit,
	}
	if req.StartDate != nil {
		if t, err := time.Parse("2006-01-02", *req.StartDate); err == nil {
			course.StartDate = &t
		}
	}

	if err := s.repo.Course.Create(ctx, &course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	resp := toCourseResponse(*course)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseResponse(c))
	}
	return out, nil
}

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.DurationValue != nil {
		course.DurationValue = *req.DurationValue
	}
	if req.DurationUnit != nil {
		course.DurationUnit = *req.DurationUnit
	}
	if req.StartDate != nil {
		if t, err := time.Parse("2006-01-02", *req.StartDate); err == nil {
			course.StartDate = &t
		}
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("更新课程失败", zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(*course)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return s.repo.Course.Delete(ctx, id)
}

func toCourseResponse(c model.Course) dto.CourseResponse {
	resp := dto.CourseResponse{
		CourseID:      c.CourseID,
		Code:          c.Code,
		Title:         c.Title,
		Description:   c.Description,
		DurationValue: c.DurationValue,
		DurationUnit:  c.DurationUnit,
	}
	if c.StartDate != nil {
		d := c.StartDate.Format("2006-01-02")
		resp.StartDate = &d
	}
	return resp
}
