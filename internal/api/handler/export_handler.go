package handler

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"

	"school-sms/backend/internal/service"
	"school-sms/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出课表为 Excel
// GET /api/v1/export/timetables/excel?class_name=&section=
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	className := c.Query("class_name")
	var section *string
	if s := c.Query("section"); s != "" {
		section = &s
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), className, section)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportICS 导出班级课表为 iCalendar
// GET /api/v1/export/timetables/ics?class_name=&section=
func (h *ExportHandler) ExportICS(c *gin.Context) {
	className := c.Query("class_name")
	if className == "" {
		response.BadRequest(c, 10001, "class_name 不能为空")
		return
	}
	var section *string
	if s := c.Query("section"); s != "" {
		section = &s
	}

	data, filename, err := h.exportSvc.ExportICS(c.Request.Context(), className, section)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "text/calendar; charset=utf-8", data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoEntries):
		response.NotFound(c, 16005, "没有可导出的课表条目")
	default:
		response.InternalError(c)
	}
}
