package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-sms/backend/internal/dto"
	"school-sms/backend/internal/model"
	"school-sms/backend/internal/repository"
)

// ── 教师模块业务错误 ──

var (
	ErrTeacherNotFound = errors.New("教师不存在")
)

// TeacherService 教师业务接口
type TeacherService interface {
	Create(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error)
	List(ctx context.Context) ([]dto.TeacherResponse, error)
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error) {
	teacher := &model.Teacher{
		Name:             req.Name,
		Email:            req.Email,
		SubjectSpecialty: req.SubjectSpecialty,
	}
	teacher.CreatedBy = &callerID
	teacher.UpdatedBy = &callerID

	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}

	return toTeacherResponse(teacher), nil
}

func (s *teacherService) GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTeacherResponse(teacher), nil
}

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *toTeacherResponse(&teachers[i]))
	}

	return result, nil
}

func toTeacherResponse(t *model.Teacher) *dto.TeacherResponse {
	return &dto.TeacherResponse{
		ID:               t.TeacherID,
		Name:             t.Name,
		Email:            t.Email,
		SubjectSpecialty: t.SubjectSpecialty,
		CreatedAt:        t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:        t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
