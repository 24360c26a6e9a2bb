package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/dto"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/service"
	"github.com/mathraaj222-gif/trainmice-mvp-production/pkg/response"
)

// ScheduleHandler 课程表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GetTimetable 获取课程表层级视图
// GET /api/v1/courses/:id/timetable
func (h *ScheduleHandler) GetTimetable(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	timetable, err := h.scheduleSvc.GetTimetable(c.Request.Context(), courseID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, timetable)
}

// SaveTimetable 整表替换保存课程表
// PUT /api/v1/courses/:id/timetable
func (h *ScheduleHandler) SaveTimetable(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.SaveTimetable(c.Request.Context(), courseID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// Retemplate 按课程当前时长重算课程表模板
// POST /api/v1/courses/:id/timetable/retemplate
func (h *ScheduleHandler) Retemplate(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	result, err := h.scheduleSvc.Retemplate(c.Request.Context(), courseID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 统一处理课程表模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleCourseNotFound):
		response.NotFound(c, 13001, "课程不存在")
	case errors.Is(err, service.ErrScheduleSaveFailed):
		response.Error(c, 500, 13002, "课程表保存失败，原课程表未受影响")
	default:
		response.InternalError(c)
	}
}
