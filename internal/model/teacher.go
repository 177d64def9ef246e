package model

// Teacher 教师档案表 — 对应 teachers
type Teacher struct {
	TeacherID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name             string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email            string `gorm:"type:varchar(255)"                              json:"email"`
	SubjectSpecialty string `gorm:"type:varchar(100)"                              json:"subject_specialty"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }
