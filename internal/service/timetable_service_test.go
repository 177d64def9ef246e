package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"school-sms/backend/internal/dto"
	"school-sms/backend/internal/model"
	"school-sms/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestTimetableService() (TimetableService, *mockTimetableRepo, *mockTeacherRepo) {
	ttRepo := newMockTimetableRepo()
	tchRepo := newMockTeacherRepo()
	repo := &repository.Repository{
		Teacher:   tchRepo,
		Timetable: ttRepo,
	}
	svc := NewTimetableService(repo, nil, zap.NewNop())
	return svc, ttRepo, tchRepo
}

func seedTeacher(repo *mockTeacherRepo, id, name string) {
	repo.teachers[id] = &model.Teacher{TeacherID: id, Name: name}
}

func createReq(teacherID, className string, day int, start, end string) *dto.CreateTimetableRequest {
	return &dto.CreateTimetableRequest{
		ClassName: className,
		Subject:   "数学",
		TeacherID: teacherID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
	}
}

// ── Create 测试 ──

func TestTimetableService_Create_Success(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	result, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.ID == "" {
		t.Error("期望分配ID")
	}
	if !result.IsActive {
		t.Error("新建条目应为active")
	}
	if result.ClassName != "5A" || result.DayOfWeek != 1 {
		t.Errorf("期望ClassName=5A DayOfWeek=1，实际=%s %d", result.ClassName, result.DayOfWeek)
	}
}

func TestTimetableService_Create_TeacherNotFound(t *testing.T) {
	svc, _, _ := setupTestTimetableService()

	_, err := svc.Create(context.Background(), createReq("missing", "5A", 1, "09:00", "10:00"), "admin-001")
	if !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("期望ErrTeacherNotFound，实际=%v", err)
	}
}

func TestTimetableService_Create_InvalidTimeFormat(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	_, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "9:00", "10:00"), "admin-001")
	if !errors.Is(err, ErrInvalidTimeFormat) {
		t.Errorf("期望ErrInvalidTimeFormat，实际=%v", err)
	}
}

func TestTimetableService_Create_TeacherConflictRejected(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	if _, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001"); err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}

	// 同教师同天时段重叠，不同班级
	_, err := svc.Create(context.Background(), createReq("t1", "5B", 1, "09:30", "10:30"), "admin-001")
	var conflictErr *TimetableConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望TimetableConflictError，实际=%v", err)
	}
	if len(conflictErr.Report.Conflicts) != 1 || conflictErr.Report.Conflicts[0].Type != "TEACHER" {
		t.Errorf("期望恰好1条TEACHER明细，实际=%+v", conflictErr.Report.Conflicts)
	}

	// 同样的时段换到另一天则成功
	if _, err := svc.Create(context.Background(), createReq("t1", "5B", 2, "09:30", "10:30"), "admin-001"); err != nil {
		t.Errorf("不同天的相同时段应成功: %v", err)
	}
}

func TestTimetableService_Create_BackToBackSucceeds(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	if _, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001"); err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}
	if _, err := svc.Create(context.Background(), createReq("t1", "5B", 1, "10:00", "11:00"), "admin-001"); err != nil {
		t.Errorf("首尾相接的时段应成功: %v", err)
	}
}

// ── Update 测试 ──

func TestTimetableService_Update_SelfNoConflict(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	created, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 更新为完全相同的时段：排除自身，不应自冲突
	req := createReq("t1", "5A", 1, "09:00", "10:00")
	req.Subject = "语文"
	updated, err := svc.Update(context.Background(), created.ID, req, "admin-001")
	if err != nil {
		t.Fatalf("自身时段不变的更新应成功: %v", err)
	}
	if updated.Subject != "语文" {
		t.Errorf("期望Subject=语文，实际=%s", updated.Subject)
	}
}

func TestTimetableService_Update_NotFound(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	_, err := svc.Update(context.Background(), "missing", createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001")
	if !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望ErrTimetableNotFound，实际=%v", err)
	}
}

func TestTimetableService_Update_ConflictWithOther(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	if _, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	second, err := svc.Create(context.Background(), createReq("t1", "5B", 1, "11:00", "12:00"), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 把第二条移动到与第一条重叠的时段
	_, err = svc.Update(context.Background(), second.ID, createReq("t1", "5B", 1, "09:30", "10:30"), "admin-001")
	var conflictErr *TimetableConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望TimetableConflictError，实际=%v", err)
	}
}

// ── Delete 测试 ──

func TestTimetableService_Delete_FreesSlot(t *testing.T) {
	svc, ttRepo, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	created, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, "admin-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	// 软删除：记录保留，is_active 置 false
	stored, ok := ttRepo.entries[created.ID]
	if !ok {
		t.Fatal("软删除后记录应保留")
	}
	if stored.IsActive {
		t.Error("期望IsActive=false")
	}

	// 释放时段后，完全相同的条目可以重新创建
	if _, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001"); err != nil {
		t.Errorf("软删除释放时段后重新创建应成功: %v", err)
	}
}

func TestTimetableService_Delete_NotFound(t *testing.T) {
	svc, _, _ := setupTestTimetableService()

	if err := svc.Delete(context.Background(), "missing", "admin-001"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望ErrTimetableNotFound，实际=%v", err)
	}
}

// ── GetByID / List 测试 ──

func TestTimetableService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := setupTestTimetableService()

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("期望ErrTimetableNotFound，实际=%v", err)
	}
}

func TestTimetableService_GetByID_ReturnsInactive(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	created, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "admin-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("按主键查询软删除条目应成功: %v", err)
	}
	if got.IsActive {
		t.Error("期望IsActive=false")
	}
}

func TestTimetableService_List_Filters(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")
	seedTeacher(tchRepo, "t2", "李老师")

	if _, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if _, err := svc.Create(context.Background(), createReq("t2", "5B", 2, "09:00", "10:00"), "admin-001"); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	all, err := svc.List(context.Background(), &dto.TimetableListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望2条，实际=%d", len(all))
	}

	byTeacher, err := svc.List(context.Background(), &dto.TimetableListRequest{TeacherID: "t1"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(byTeacher) != 1 || byTeacher[0].TeacherID != "t1" {
		t.Errorf("期望t1的1条课表，实际=%+v", byTeacher)
	}

	day := 2
	byDay, err := svc.List(context.Background(), &dto.TimetableListRequest{DayOfWeek: &day})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(byDay) != 1 || byDay[0].DayOfWeek != 2 {
		t.Errorf("期望周二的1条课表，实际=%+v", byDay)
	}
}

// ── CheckConflicts 测试 ──

func TestTimetableService_CheckConflicts_TimeValidation(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	req := &dto.ConflictCheckRequest{
		CreateTimetableRequest: *createReq("t1", "5A", 1, "11:00", "10:00"),
	}
	report, err := svc.CheckConflicts(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckConflicts 应成功: %v", err)
	}
	if !report.HasConflict {
		t.Error("倒置区间应HasConflict=true")
	}
	if len(report.Conflicts) == 0 || report.Conflicts[0].Type != "TIME_VALIDATION" {
		t.Errorf("期望TIME_VALIDATION明细，实际=%+v", report.Conflicts)
	}
}

func TestTimetableService_CheckConflicts_WithExclude(t *testing.T) {
	svc, _, tchRepo := setupTestTimetableService()
	seedTeacher(tchRepo, "t1", "王老师")

	created, err := svc.Create(context.Background(), createReq("t1", "5A", 1, "09:00", "10:00"), "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	// 不排除：预检报告自冲突
	req := &dto.ConflictCheckRequest{CreateTimetableRequest: *createReq("t1", "5A", 1, "09:00", "10:00")}
	report, err := svc.CheckConflicts(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckConflicts 应成功: %v", err)
	}
	if !report.HasConflict {
		t.Error("不排除自身时应报告冲突")
	}

	// 排除后无冲突
	req.ExcludeID = &created.ID
	report, err = svc.CheckConflicts(context.Background(), req)
	if err != nil {
		t.Fatalf("CheckConflicts 应成功: %v", err)
	}
	if report.HasConflict {
		t.Errorf("排除自身后不应有冲突: %+v", report.Conflicts)
	}
}
