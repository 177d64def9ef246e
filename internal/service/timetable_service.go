package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-sms/backend/internal/dto"
	"school-sms/backend/internal/model"
	"school-sms/backend/internal/repository"
	"school-sms/backend/pkg/redis"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableNotFound = errors.New("课表条目不存在")
	ErrInvalidTimeFormat = errors.New("时间格式无效，应为 HH:MM")
)

// TimetableConflictError 冲突错误，携带完整检测报告
type TimetableConflictError struct {
	Report *dto.ConflictCheckResponse
}

func (e *TimetableConflictError) Error() string {
	return e.Report.Message
}

// TimetableService 课表业务接口
type TimetableService interface {
	Create(ctx context.Context, req *dto.CreateTimetableRequest, callerID string) (*dto.TimetableResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimetableResponse, error)
	List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.TimetableResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimetableRequest, callerID string) (*dto.TimetableResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
}

type timetableService struct {
	repo    *repository.Repository
	rdb     *redis.Client // 可为 nil，nil 时跳过缓存
	logger  *zap.Logger
	checker *conflictChecker

	// mu 串行化「冲突检测 + 写入」，两次并发提交不会都通过检测。
	// 单实例部署下够用；多实例需换数据库级锁。
	mu sync.Mutex
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) TimetableService {
	return &timetableService{
		repo:    repo,
		rdb:     rdb,
		logger:  logger,
		checker: newConflictChecker(repo, logger),
	}
}

// ────────────────────── Create ──────────────────────

func (s *timetableService) Create(ctx context.Context, req *dto.CreateTimetableRequest, callerID string) (*dto.TimetableResponse, error) {
	if err := validateTimeFormat(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	teacher, err := s.resolveTeacher(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}

	entry := entryFromRequest(req)

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.checker.Evaluate(ctx, entry, teacher.Name, "")
	if err != nil {
		return nil, err
	}
	if report.HasConflict {
		return nil, &TimetableConflictError{Report: report}
	}

	entry.IsActive = true
	entry.CreatedBy = &callerID
	entry.UpdatedBy = &callerID

	if err := s.repo.Timetable.Create(ctx, entry); err != nil {
		s.logger.Error("创建课表条目失败", zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)

	// 重新加载以获取教师关联
	created, err := s.repo.Timetable.GetByID(ctx, entry.TimetableID)
	if err != nil {
		return nil, err
	}

	return toTimetableResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timetableService) GetByID(ctx context.Context, id string) (*dto.TimetableResponse, error) {
	entry, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimetableResponse(entry), nil
}

// ────────────────────── List ──────────────────────

func (s *timetableService) List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.TimetableResponse, error) {
	cacheKey := listCacheKey(req)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		return cached, nil
	}

	var (
		entries []model.Timetable
		err     error
	)
	switch {
	case req.ClassName != "":
		entries, err = s.repo.Timetable.ListByClass(ctx, req.ClassName, req.Section)
	case req.TeacherID != "":
		entries, err = s.repo.Timetable.ListByTeacher(ctx, req.TeacherID)
	case req.DayOfWeek != nil:
		entries, err = s.repo.Timetable.ListByDay(ctx, *req.DayOfWeek)
	default:
		entries, err = s.repo.Timetable.List(ctx)
	}
	if err != nil {
		s.logger.Error("列出课表条目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimetableResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toTimetableResponse(&entries[i]))
	}

	s.writeCache(ctx, cacheKey, result)

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *timetableService) Update(ctx context.Context, id string, req *dto.UpdateTimetableRequest, callerID string) (*dto.TimetableResponse, error) {
	if err := validateTimeFormat(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	entry, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimetableNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	teacher, err := s.resolveTeacher(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}

	proposed := entryFromRequest(req)
	proposed.TimetableID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	// 排除自身，否则条目会与自己的旧时段冲突
	report, err := s.checker.Evaluate(ctx, proposed, teacher.Name, id)
	if err != nil {
		return nil, err
	}
	if report.HasConflict {
		return nil, &TimetableConflictError{Report: report}
	}

	// 整体覆盖业务字段
	entry.ClassName = req.ClassName
	entry.Section = req.Section
	entry.Subject = req.Subject
	entry.TeacherID = req.TeacherID
	entry.DayOfWeek = req.DayOfWeek
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.Room = req.Room
	entry.Notes = req.Notes
	entry.UpdatedBy = &callerID
	entry.Teacher = nil

	if err := s.repo.Timetable.Update(ctx, entry); err != nil {
		s.logger.Error("更新课表条目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.invalidateCache(ctx)

	updated, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toTimetableResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除：is_active 置 false，记录保留。
// 此后该条目不再出现在任何冲突候选集与列表中。
func (s *timetableService) Delete(ctx context.Context, id string, callerID string) error {
	entry, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableNotFound
		}
		s.logger.Error("查询课表条目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	entry.IsActive = false
	entry.UpdatedBy = &callerID
	entry.Teacher = nil

	if err := s.repo.Timetable.Update(ctx, entry); err != nil {
		s.logger.Error("删除课表条目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx)

	return nil
}

// ────────────────────── CheckConflicts ──────────────────────

// CheckConflicts 冲突预检，不落库。交互式排课界面用它在提交前看到全部冲突。
func (s *timetableService) CheckConflicts(ctx context.Context, req *dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	if err := validateTimeFormat(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	teacher, err := s.resolveTeacher(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}

	excludeID := ""
	if req.ExcludeID != nil {
		excludeID = *req.ExcludeID
	}

	return s.checker.Evaluate(ctx, entryFromRequest(&req.CreateTimetableRequest), teacher.Name, excludeID)
}

// ── 内部辅助方法 ──

func (s *timetableService) resolveTeacher(ctx context.Context, teacherID string) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", teacherID), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

func validateTimeFormat(start, end string) error {
	if !model.ValidTimeString(start) || !model.ValidTimeString(end) {
		return ErrInvalidTimeFormat
	}
	return nil
}

func entryFromRequest(req *dto.CreateTimetableRequest) *model.Timetable {
	return &model.Timetable{
		ClassName: req.ClassName,
		Section:   req.Section,
		Subject:   req.Subject,
		TeacherID: req.TeacherID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
		Notes:     req.Notes,
		IsActive:  true,
	}
}

func toTimetableResponse(e *model.Timetable) *dto.TimetableResponse {
	resp := &dto.TimetableResponse{
		ID:        e.TimetableID,
		ClassName: e.ClassName,
		Section:   e.Section,
		Subject:   e.Subject,
		TeacherID: e.TeacherID,
		DayOfWeek: e.DayOfWeek,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Room:      e.Room,
		Notes:     e.Notes,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: e.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}

	if e.Teacher != nil {
		resp.Teacher = &dto.TeacherBrief{
			ID:   e.Teacher.TeacherID,
			Name: e.Teacher.Name,
		}
	}

	return resp
}

// ── 列表缓存 ──

func listCacheKey(req *dto.TimetableListRequest) string {
	section := ""
	if req.Section != nil {
		section = *req.Section
	}
	day := ""
	if req.DayOfWeek != nil {
		day = fmt.Sprintf("%d", *req.DayOfWeek)
	}
	return fmt.Sprintf("list:%s:%s:%s:%s", req.ClassName, section, req.TeacherID, day)
}

func (s *timetableService) readCache(ctx context.Context, key string) ([]dto.TimetableResponse, bool) {
	if s.rdb == nil {
		return nil, false
	}

	version, err := s.rdb.TimetableCacheVersion(ctx)
	if err != nil {
		s.logger.Warn("读取课表缓存版本失败", zap.Error(err))
		return nil, false
	}

	raw, hit, err := s.rdb.GetTimetableCache(ctx, version, key)
	if err != nil {
		s.logger.Warn("读取课表缓存失败", zap.Error(err))
		return nil, false
	}
	if !hit {
		return nil, false
	}

	var result []dto.TimetableResponse
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("解析课表缓存失败", zap.Error(err))
		return nil, false
	}

	return result, true
}

func (s *timetableService) writeCache(ctx context.Context, key string, result []dto.TimetableResponse) {
	if s.rdb == nil {
		return
	}

	version, err := s.rdb.TimetableCacheVersion(ctx)
	if err != nil {
		s.logger.Warn("读取课表缓存版本失败", zap.Error(err))
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return
	}

	if err := s.rdb.SetTimetableCache(ctx, version, key, string(raw)); err != nil {
		s.logger.Warn("写入课表缓存失败", zap.Error(err))
	}
}

// invalidateCache 写操作后递增缓存版本
func (s *timetableService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.BumpTimetableCacheVersion(ctx); err != nil {
		s.logger.Warn("递增课表缓存版本失败", zap.Error(err))
	}
}
