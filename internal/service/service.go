package service

import (
	"go.uber.org/zap"

	"github.com/mathraaj222-gif/trainmice-mvp-production/config"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/repository"
	"github.com/mathraaj222-gif/trainmice-mvp-production/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course   CourseService
	Schedule ScheduleService
	Import   ImportService
	Export   ExportService
}

// NewService 创建 Service 聚合
// cache 允许为 nil：Redis 不可用时课程表视图缓存降级为直读
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Course:   NewCourseService(repo, logger),
		Schedule: NewScheduleService(repo, cache, cfg.Cache.TimetableTTL, logger),
		Import:   NewImportService(repo, cache, logger),
		Export:   NewExportService(repo, logger),
	}
}
