package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"school-sms/backend/internal/model"
)

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	if teacher.TeacherID == "" {
		teacher.TeacherID = "tch-" + teacher.Name
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock TimetableRepository ──

type mockTimetableRepo struct {
	entries map[string]*model.Timetable
	seq     int
}

func newMockTimetableRepo() *mockTimetableRepo {
	return &mockTimetableRepo{entries: make(map[string]*model.Timetable)}
}

func (m *mockTimetableRepo) Create(_ context.Context, entry *model.Timetable) error {
	if entry.TimetableID == "" {
		m.seq++
		entry.TimetableID = fmt.Sprintf("tt-%03d", m.seq)
	}
	m.entries[entry.TimetableID] = entry
	return nil
}

func (m *mockTimetableRepo) GetByID(_ context.Context, id string) (*model.Timetable, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableRepo) Update(_ context.Context, entry *model.Timetable) error {
	m.entries[entry.TimetableID] = entry
	return nil
}

func (m *mockTimetableRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.entries[id]
	return ok, nil
}

func (m *mockTimetableRepo) FindOverlappingByTeacher(_ context.Context, teacherID string, day int, start, end string) ([]model.Timetable, error) {
	proposed := model.Interval{DayOfWeek: day, StartTime: start, EndTime: end}
	var result []model.Timetable
	for _, e := range m.entries {
		if e.IsActive && e.TeacherID == teacherID && e.Interval().Overlaps(proposed) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) FindOverlappingByClass(_ context.Context, className string, section *string, day int, start, end string) ([]model.Timetable, error) {
	proposed := model.Interval{DayOfWeek: day, StartTime: start, EndTime: end}
	var result []model.Timetable
	for _, e := range m.entries {
		if !e.IsActive || e.ClassName != className {
			continue
		}
		// section 指定时按 SQL 语义只匹配相同的非空 section
		if section != nil && (e.Section == nil || *e.Section != *section) {
			continue
		}
		if e.Interval().Overlaps(proposed) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) FindOverlappingByRoom(_ context.Context, room string, day int, start, end string) ([]model.Timetable, error) {
	proposed := model.Interval{DayOfWeek: day, StartTime: start, EndTime: end}
	var result []model.Timetable
	for _, e := range m.entries {
		if e.IsActive && e.Room != nil && *e.Room == room && e.Interval().Overlaps(proposed) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockTimetableRepo) ListByClass(_ context.Context, className string, section *string) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, e := range m.entries {
		if !e.IsActive || e.ClassName != className {
			continue
		}
		if section != nil && (e.Section == nil || *e.Section != *section) {
			continue
		}
		result = append(result, *e)
	}
	sortEntries(result)
	return result, nil
}

func (m *mockTimetableRepo) ListByTeacher(_ context.Context, teacherID string) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, e := range m.entries {
		if e.IsActive && e.TeacherID == teacherID {
			result = append(result, *e)
		}
	}
	sortEntries(result)
	return result, nil
}

func (m *mockTimetableRepo) ListByDay(_ context.Context, day int) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, e := range m.entries {
		if e.IsActive && e.DayOfWeek == day {
			result = append(result, *e)
		}
	}
	sortEntries(result)
	return result, nil
}

func (m *mockTimetableRepo) List(_ context.Context) ([]model.Timetable, error) {
	var result []model.Timetable
	for _, e := range m.entries {
		if e.IsActive {
			result = append(result, *e)
		}
	}
	sortEntries(result)
	return result, nil
}

func sortEntries(entries []model.Timetable) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DayOfWeek != entries[j].DayOfWeek {
			return entries[i].DayOfWeek < entries[j].DayOfWeek
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}
