package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"school-sms/backend/internal/dto"
	"school-sms/backend/internal/service"
	"school-sms/backend/pkg/response"
)

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// ListTimetables 获取课表列表（支持 class_name/section/teacher_id/day_of_week 过滤）
// GET /api/v1/timetables
func (h *TimetableHandler) ListTimetables(c *gin.Context) {
	var req dto.TimetableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.timetableSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// GetTimetable 获取课表条目详情
// GET /api/v1/timetables/:id
func (h *TimetableHandler) GetTimetable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	entry, err := h.timetableSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, entry)
}

// ListByClass 获取指定班级的课表
// GET /api/v1/timetables/class/:className?section=
func (h *TimetableHandler) ListByClass(c *gin.Context) {
	className := c.Param("className")
	if className == "" {
		response.BadRequest(c, 10001, "班级名称不能为空")
		return
	}

	req := dto.TimetableListRequest{ClassName: className}
	if section := c.Query("section"); section != "" {
		req.Section = &section
	}

	entries, err := h.timetableSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// ListByTeacher 获取指定教师的课表
// GET /api/v1/timetables/teacher/:teacherId
func (h *TimetableHandler) ListByTeacher(c *gin.Context) {
	teacherID := c.Param("teacherId")
	if teacherID == "" {
		response.BadRequest(c, 10001, "教师ID不能为空")
		return
	}

	entries, err := h.timetableSvc.List(c.Request.Context(), &dto.TimetableListRequest{TeacherID: teacherID})
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// ListByDay 获取指定星期的课表
// GET /api/v1/timetables/day/:day
func (h *TimetableHandler) ListByDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 || day > 7 {
		response.BadRequest(c, 10001, "星期参数无效，应为 1-7")
		return
	}

	entries, err := h.timetableSvc.List(c.Request.Context(), &dto.TimetableListRequest{DayOfWeek: &day})
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": entries})
}

// CreateTimetable 创建课表条目（冲突时返回 409 和完整冲突报告）
// POST /api/v1/timetables
func (h *TimetableHandler) CreateTimetable(c *gin.Context) {
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timetableSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.Created(c, entry)
}

// UpdateTimetable 更新课表条目（整体覆盖，冲突检测排除自身）
// PUT /api/v1/timetables/:id
func (h *TimetableHandler) UpdateTimetable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	var req dto.UpdateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.timetableSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteTimetable 删除课表条目（软删除）
// DELETE /api/v1/timetables/:id
func (h *TimetableHandler) DeleteTimetable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.timetableSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, nil)
}

// CheckConflicts 冲突预检（不落库）
// POST /api/v1/timetables/check-conflicts
func (h *TimetableHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	report, err := h.timetableSvc.CheckConflicts(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}

	response.OK(c, report)
}

// handleTimetableError 统一处理课表模块业务错误
func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	var conflictErr *service.TimetableConflictError

	switch {
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 16001, "课表条目不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 16002, "教师不存在")
	case errors.As(err, &conflictErr):
		response.Conflict(c, 16003, conflictErr.Report.Message, conflictErr.Report)
	case errors.Is(err, service.ErrInvalidTimeFormat):
		response.BadRequest(c, 16004, "时间格式无效，应为 HH:MM")
	default:
		response.InternalError(c)
	}
}
