package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mathraaj222-gif/trainmice-mvp-production/config"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/api/handler"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Import.MaxUploadSize))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（身份由上游网关注入，见 middleware.Identity） ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		// 课程模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.POST("", h.Course.CreateCourse)
			courses.GET("/:id", h.Course.GetCourse)
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.DELETE("/:id", h.Course.DeleteCourse)

			// 课程表模块
			courses.GET("/:id/timetable", h.Schedule.GetTimetable)
			courses.PUT("/:id/timetable", h.Schedule.SaveTimetable)
			courses.POST("/:id/timetable/retemplate", h.Schedule.Retemplate)

			// 导出模块
			courses.GET("/:id/timetable/export/xlsx", h.Export.ExportTimetableXLSX)
			courses.GET("/:id/timetable/export/ics", h.Export.ExportTimetableICS)
		}

		// 历史数据导入模块
		imports := v1.Group("/imports")
		{
			imports.POST("/schedules", h.Import.ImportSchedules)
		}
	}

	return r
}
