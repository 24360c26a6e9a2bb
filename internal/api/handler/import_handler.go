package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/service"
	"github.com/mathraaj222-gif/trainmice-mvp-production/pkg/response"
)

// ImportHandler 历史课程表导入模块 HTTP 处理器
type ImportHandler struct {
	importSvc     service.ImportService
	maxUploadSize int64
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{importSvc: importSvc, maxUploadSize: maxUploadSize}
}

// ImportSchedules 导入历史课程表文件
// POST /api/v1/imports/schedules?mode=skip|upsert
// multipart 字段 file：CSV 或 Excel（按扩展名识别）
func (h *ImportHandler) ImportSchedules(c *gin.Context) {
	mode := service.ImportMode(c.DefaultQuery("mode", string(service.ImportModeSkip)))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少导入文件")
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		response.BadRequest(c, 14001, "导入文件过大")
		return
	}

	format := ""
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		format = "csv"
	case ".xlsx":
		format = "xlsx"
	default:
		response.BadRequest(c, 14002, "仅支持 CSV 或 Excel 文件")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	summary, err := h.importSvc.ImportSchedules(c.Request.Context(), f, format, mode)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	response.OK(c, summary)
}

// handleImportError 统一处理导入模块业务错误
func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportUnsupportedFormat):
		response.BadRequest(c, 14002, "仅支持 CSV 或 Excel 文件")
	case errors.Is(err, service.ErrImportUnsupportedMode):
		response.BadRequest(c, 14003, "导入模式必须为 skip 或 upsert")
	case errors.Is(err, service.ErrImportEmptyFile):
		response.BadRequest(c, 14004, "导入文件中没有数据行")
	default:
		response.InternalError(c)
	}
}
