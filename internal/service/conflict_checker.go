package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"school-sms/backend/internal/dto"
	"school-sms/backend/internal/model"
	"school-sms/backend/internal/repository"
)

// conflictChecker 课表冲突检测器
//
// 对一条提案在三个资源维度（教师、班级、教室）做重叠检测，
// 外加开始/结束时间的合法性校验，所有发现累积到同一份报告中，
// 调用方一次看到全部问题而不是只看到第一个。
type conflictChecker struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func newConflictChecker(repo *repository.Repository, logger *zap.Logger) *conflictChecker {
	return &conflictChecker{repo: repo, logger: logger}
}

// Evaluate 对提案条目做冲突检测
//
// excludeID 非空时从候选集中按 ID 剔除该条目，用于更新时排除自身；
// 是否传 excludeID 是调用方的责任，不传则条目会与自身旧记录冲突。
//
// 明细顺序固定：TIME_VALIDATION → TEACHER → CLASS → ROOM。
// 每个维度内部的顺序取决于存储返回顺序，不作承诺。
func (k *conflictChecker) Evaluate(ctx context.Context, proposed *model.Timetable, teacherName string, excludeID string) (*dto.ConflictCheckResponse, error) {
	var details []dto.ConflictDetail

	// 1. 时间区间合法性。不合法也继续跑资源检测，发现全部累积。
	if !proposed.Interval().IsValid() {
		details = append(details, dto.ConflictDetail{
			Type:        dto.ConflictTypeTimeValidation,
			Description: "开始时间必须早于结束时间",
		})
	}

	// 2. 教师维度
	teacherHits, err := k.repo.Timetable.FindOverlappingByTeacher(
		ctx, proposed.TeacherID, proposed.DayOfWeek, proposed.StartTime, proposed.EndTime)
	if err != nil {
		k.logger.Error("查询教师时段冲突失败", zap.Error(err))
		return nil, err
	}
	for _, e := range filterExcluded(teacherHits, excludeID) {
		details = append(details, dto.ConflictDetail{
			Type: dto.ConflictTypeTeacher,
			Description: fmt.Sprintf("教师 %s 在该时段已有课程: %s (%s-%s)",
				teacherName, e.Subject, e.StartTime, e.EndTime),
			ConflictingSlot: toTimetableResponse(&e),
		})
	}

	// 3. 班级维度。Section 为 nil 时匹配该班级的所有分组。
	classHits, err := k.repo.Timetable.FindOverlappingByClass(
		ctx, proposed.ClassName, proposed.Section, proposed.DayOfWeek, proposed.StartTime, proposed.EndTime)
	if err != nil {
		k.logger.Error("查询班级时段冲突失败", zap.Error(err))
		return nil, err
	}
	for _, e := range filterExcluded(classHits, excludeID) {
		details = append(details, dto.ConflictDetail{
			Type: dto.ConflictTypeClass,
			Description: fmt.Sprintf("班级 %s 在该时段已有课程: %s (%s-%s)",
				classLabel(&e), e.Subject, e.StartTime, e.EndTime),
			ConflictingSlot: toTimetableResponse(&e),
		})
	}

	// 4. 教室维度。仅当提案占用教室时才检测；
	//    不占教室的历史条目也因此永远不会出现在候选集中。
	if proposed.HasRoom() {
		roomHits, err := k.repo.Timetable.FindOverlappingByRoom(
			ctx, *proposed.Room, proposed.DayOfWeek, proposed.StartTime, proposed.EndTime)
		if err != nil {
			k.logger.Error("查询教室时段冲突失败", zap.Error(err))
			return nil, err
		}
		for _, e := range filterExcluded(roomHits, excludeID) {
			details = append(details, dto.ConflictDetail{
				Type: dto.ConflictTypeRoom,
				Description: fmt.Sprintf("教室 %s 在该时段已被占用: %s (%s-%s)",
					*proposed.Room, e.Subject, e.StartTime, e.EndTime),
				ConflictingSlot: toTimetableResponse(&e),
			})
		}
	}

	report := &dto.ConflictCheckResponse{
		HasConflict: len(details) > 0,
		Conflicts:   details,
	}
	if report.HasConflict {
		report.Message = fmt.Sprintf("Found %d conflict(s)", len(details))
	} else {
		report.Message = "No conflicts found"
		report.Conflicts = []dto.ConflictDetail{}
	}

	return report, nil
}

// filterExcluded 按 ID 从候选集中剔除被排除的条目
func filterExcluded(entries []model.Timetable, excludeID string) []model.Timetable {
	if excludeID == "" {
		return entries
	}
	result := make([]model.Timetable, 0, len(entries))
	for _, e := range entries {
		if e.TimetableID != excludeID {
			result = append(result, e)
		}
	}
	return result
}

// classLabel 班级展示名："5A" 或 "5A-1"
func classLabel(e *model.Timetable) string {
	if e.Section != nil && *e.Section != "" {
		return e.ClassName + "-" + *e.Section
	}
	return e.ClassName
}
