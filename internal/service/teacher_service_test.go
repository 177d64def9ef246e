package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"school-sms/backend/internal/dto"
	"school-sms/backend/internal/repository"
)

func setupTestTeacherService() (TeacherService, *mockTeacherRepo) {
	tchRepo := newMockTeacherRepo()
	repo := &repository.Repository{
		Teacher:   tchRepo,
		Timetable: newMockTimetableRepo(),
	}
	return NewTeacherService(repo, zap.NewNop()), tchRepo
}

func TestTeacherService_CreateAndGet(t *testing.T) {
	svc, _ := setupTestTeacherService()

	created, err := svc.Create(context.Background(), &dto.CreateTeacherRequest{
		Name:             "王老师",
		Email:            "wang@example.com",
		SubjectSpecialty: "数学",
	}, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.ID == "" {
		t.Error("期望分配ID")
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.Name != "王老师" {
		t.Errorf("期望Name=王老师，实际=%s", got.Name)
	}
}

func TestTeacherService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestTeacherService()

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("期望ErrTeacherNotFound，实际=%v", err)
	}
}

func TestTeacherService_List(t *testing.T) {
	svc, tchRepo := setupTestTeacherService()
	seedTeacher(tchRepo, "t1", "王老师")
	seedTeacher(tchRepo, "t2", "李老师")

	teachers, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(teachers) != 2 {
		t.Errorf("期望2位教师，实际=%d", len(teachers))
	}
}
