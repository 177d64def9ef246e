package repository

import (
	"context"

	"gorm.io/gorm"

	"school-sms/backend/internal/model"
)

// TimetableRepository 课表数据访问接口
// 重叠查询返回候选集，是否构成冲突（含排除自身）由 Service 层判定
type TimetableRepository interface {
	Create(ctx context.Context, entry *model.Timetable) error
	// GetByID 按主键查询，软删除的条目也能查到
	GetByID(ctx context.Context, id string) (*model.Timetable, error)
	Update(ctx context.Context, entry *model.Timetable) error
	Exists(ctx context.Context, id string) (bool, error)

	// ── 冲突检测候选查询（仅返回 is_active = true 的条目）──
	FindOverlappingByTeacher(ctx context.Context, teacherID string, day int, start, end string) ([]model.Timetable, error)
	// FindOverlappingByClass section 为 nil 时不按 section 过滤（匹配该班级所有分组）
	FindOverlappingByClass(ctx context.Context, className string, section *string, day int, start, end string) ([]model.Timetable, error)
	FindOverlappingByRoom(ctx context.Context, room string, day int, start, end string) ([]model.Timetable, error)

	// ── 列表查询（仅返回 is_active = true 的条目）──
	ListByClass(ctx context.Context, className string, section *string) ([]model.Timetable, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Timetable, error)
	ListByDay(ctx context.Context, day int) ([]model.Timetable, error)
	List(ctx context.Context) ([]model.Timetable, error)
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

// active 软删除过滤集中在这一处，避免条件散落在各查询中
func active(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func (r *timetableRepo) Create(ctx context.Context, entry *model.Timetable) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.Timetable, error) {
	var entry model.Timetable
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("timetable_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timetableRepo) Update(ctx context.Context, entry *model.Timetable) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *timetableRepo) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Timetable{}).
		Where("timetable_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// ────────────────────── 冲突检测候选查询 ──────────────────────
//
// 半开区间重叠谓词：start_time < 提案结束 AND end_time > 提案开始，
// 与 model.Interval.Overlaps 保持一致（首尾相接不算重叠）。

func (r *timetableRepo) FindOverlappingByTeacher(ctx context.Context, teacherID string, day int, start, end string) ([]model.Timetable, error) {
	var entries []model.Timetable
	err := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Where("teacher_id = ? AND day_of_week = ?", teacherID, day).
		Where("start_time < ? AND end_time > ?", end, start).
		Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) FindOverlappingByClass(ctx context.Context, className string, section *string, day int, start, end string) ([]model.Timetable, error) {
	var entries []model.Timetable
	db := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Where("class_name = ? AND day_of_week = ?", className, day).
		Where("start_time < ? AND end_time > ?", end, start)

	if section != nil {
		db = db.Where("section = ?", *section)
	}

	err := db.Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) FindOverlappingByRoom(ctx context.Context, room string, day int, start, end string) ([]model.Timetable, error) {
	var entries []model.Timetable
	err := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Where("room = ? AND day_of_week = ?", room, day).
		Where("start_time < ? AND end_time > ?", end, start).
		Find(&entries).Error
	return entries, err
}

// ────────────────────── 列表查询 ──────────────────────

func (r *timetableRepo) ListByClass(ctx context.Context, className string, section *string) ([]model.Timetable, error) {
	var entries []model.Timetable
	db := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Where("class_name = ?", className)

	if section != nil {
		db = db.Where("section = ?", *section)
	}

	err := db.Order("day_of_week ASC, start_time ASC").Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.Timetable, error) {
	var entries []model.Timetable
	err := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Where("teacher_id = ?", teacherID).
		Order("day_of_week ASC, start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) ListByDay(ctx context.Context, day int) ([]model.Timetable, error) {
	var entries []model.Timetable
	err := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Where("day_of_week = ?", day).
		Order("start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) List(ctx context.Context) ([]model.Timetable, error) {
	var entries []model.Timetable
	err := active(r.db.WithContext(ctx)).
		Preload("Teacher").
		Order("day_of_week ASC, start_time ASC").
		Find(&entries).Error
	return entries, err
}
