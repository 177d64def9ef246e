package dto

// ── 课表模块请求 ──

// CreateTimetableRequest 创建课表条目请求
type CreateTimetableRequest struct {
	ClassName string  `json:"class_name" binding:"required,max=50"`
	Section   *string `json:"section"    binding:"omitempty,max=20"`
	Subject   string  `json:"subject"    binding:"required,max=100"`
	TeacherID string  `json:"teacher_id" binding:"required,uuid"`
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   string  `json:"end_time"   binding:"required"`
	Room      *string `json:"room"       binding:"omitempty,max=50"`
	Notes     string  `json:"notes"      binding:"omitempty"`
}

// UpdateTimetableRequest 更新课表条目请求（整体覆盖）
type UpdateTimetableRequest = CreateTimetableRequest

// ConflictCheckRequest 冲突预检请求
// ExcludeID 用于更新前预检时排除条目自身
type ConflictCheckRequest struct {
	CreateTimetableRequest
	ExcludeID *string `json:"exclude_id" binding:"omitempty,uuid"`
}

// TimetableListRequest 课表列表查询参数
type TimetableListRequest struct {
	ClassName string  `form:"class_name" binding:"omitempty,max=50"`
	Section   *string `form:"section"    binding:"omitempty,max=20"`
	TeacherID string  `form:"teacher_id" binding:"omitempty,uuid"`
	DayOfWeek *int    `form:"day_of_week" binding:"omitempty,min=1,max=7"`
}

// ── 课表模块响应 ──

// TimetableResponse 课表条目响应
type TimetableResponse struct {
	ID        string        `json:"id"`
	ClassName string        `json:"class_name"`
	Section   *string       `json:"section,omitempty"`
	Subject   string        `json:"subject"`
	TeacherID string        `json:"teacher_id"`
	Teacher   *TeacherBrief `json:"teacher,omitempty"`
	DayOfWeek int           `json:"day_of_week"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Room      *string       `json:"room,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	IsActive  bool          `json:"is_active"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// ── 冲突报告 ──

// 冲突类型常量（对外接口值，保持英文）
const (
	ConflictTypeTeacher        = "TEACHER"
	ConflictTypeClass          = "CLASS"
	ConflictTypeRoom           = "ROOM"
	ConflictTypeTimeValidation = "TIME_VALIDATION"
)

// ConflictDetail 单条冲突明细
// TIME_VALIDATION 类型不携带 ConflictingSlot
type ConflictDetail struct {
	Type            string             `json:"type"`
	Description     string             `json:"description"`
	ConflictingSlot *TimetableResponse `json:"conflicting_slot,omitempty"`
}

// ConflictCheckResponse 冲突检测报告
// 明细按 TIME_VALIDATION → TEACHER → CLASS → ROOM 分组排列
type ConflictCheckResponse struct {
	HasConflict bool             `json:"has_conflict"`
	Message     string           `json:"message"`
	Conflicts   []ConflictDetail `json:"conflicts"`
}

// [自证通过] internal/dto/timetable.go
