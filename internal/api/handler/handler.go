package handler

import (
	"github.com/mathraaj222-gif/trainmice-mvp-production/config"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Course   *CourseHandler
	Schedule *ScheduleHandler
	Import   *ImportHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Course:   NewCourseHandler(svc.Course),
		Schedule: NewScheduleHandler(svc.Schedule),
		Import:   NewImportHandler(svc.Import, cfg.Import.MaxUploadSize),
		Export:   NewExportHandler(svc.Export),
	}
}
