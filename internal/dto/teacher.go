package dto

// ── 教师模块请求 ──

// CreateTeacherRequest 创建教师请求
type CreateTeacherRequest struct {
	Name             string `json:"name"              binding:"required,max=100"`
	Email            string `json:"email"             binding:"omitempty,email"`
	SubjectSpecialty string `json:"subject_specialty" binding:"omitempty,max=100"`
}

// ── 教师模块响应 ──

// TeacherResponse 教师信息响应
type TeacherResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email,omitempty"`
	SubjectSpecialty string `json:"subject_specialty,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// TeacherBrief 教师简要信息（嵌入课表响应）
type TeacherBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
