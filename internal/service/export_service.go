package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"school-sms/backend/config"
	"school-sms/backend/internal/model"
	"school-sms/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoEntries = errors.New("没有可导出的课表条目")
)

// ExportService 课表导出业务接口
//
// 设计说明：
//   - Excel 以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
//   - ICS 导出每个条目生成一个按周重复的 VEVENT，锚定到配置的周起始日期
type ExportService interface {
	// ExportExcel 导出课表为 Excel；className 为空时导出全部
	ExportExcel(ctx context.Context, className string, section *string) (*bytes.Buffer, string, error)
	// ExportICS 导出指定班级课表为 iCalendar
	ExportICS(ctx context.Context, className string, section *string) ([]byte, string, error)
}

type exportService struct {
	cfg    *config.ExportConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.ExportConfig, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

var dayNames = map[int]string{
	1: "周一", 2: "周二", 3: "周三", 4: "周四", 5: "周五", 6: "周六", 7: "周日",
}

// ════════════════════════════════════════════════════
// ExportExcel — 导出课表为 Excel
// ════════════════════════════════════════════════════
//
// 表格结构: | 星期 | 时间 | 班级 | 科目 | 教师 | 教室 | 备注 |
// 行按 day_of_week + start_time 排序（存储层已保证）

func (s *exportService) ExportExcel(ctx context.Context, className string, section *string) (*bytes.Buffer, string, error) {
	entries, err := s.fetchEntries(ctx, className, section)
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 16)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 24)

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := "课程表"
	if className != "" {
		title = fmt.Sprintf("%s — 课程表", className)
	}
	f.SetCellValue(sheetName, "A1", title)
	f.MergeCell(sheetName, "A1", "G1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"星期", "时间", "班级", "科目", "教师", "教室", "备注"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 2), h)
		f.SetCellStyle(sheetName, cell(col, 2), cell(col, 2), headerStyle)
	}

	// 数据行
	row := 3
	for i := range entries {
		e := &entries[i]

		teacherName := ""
		if e.Teacher != nil {
			teacherName = e.Teacher.Name
		}
		room := ""
		if e.Room != nil {
			room = *e.Room
		}

		f.SetCellValue(sheetName, cell("A", row), dayNames[e.DayOfWeek])
		f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", e.StartTime, e.EndTime))
		f.SetCellValue(sheetName, cell("C", row), classLabel(e))
		f.SetCellValue(sheetName, cell("D", row), e.Subject)
		f.SetCellValue(sheetName, cell("E", row), teacherName)
		f.SetCellValue(sheetName, cell("F", row), room)
		f.SetCellValue(sheetName, cell("G", row), e.Notes)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 文件失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("课程表_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ════════════════════════════════════════════════════
// ExportICS — 导出班级课表为 iCalendar
// ════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, className string, section *string) ([]byte, string, error) {
	entries, err := s.repo.Timetable.ListByClass(ctx, className, section)
	if err != nil {
		s.logger.Error("查询班级课表失败", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	weekStart := s.resolveWeekStart()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//school-sms//timetable//CN")

	for i := range entries {
		e := &entries[i]

		startH, startM, err := parseClock(e.StartTime)
		if err != nil {
			s.logger.Warn("跳过时间格式异常的条目",
				zap.String("id", e.TimetableID), zap.String("start_time", e.StartTime))
			continue
		}
		endH, endM, err := parseClock(e.EndTime)
		if err != nil {
			continue
		}

		day := weekStart.AddDate(0, 0, e.DayOfWeek-1)
		dtStart := time.Date(day.Year(), day.Month(), day.Day(), startH, startM, 0, 0, day.Location())
		dtEnd := time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, day.Location())

		event := cal.AddEvent(e.TimetableID + "@school-sms")
		event.SetCreatedTime(time.Now())
		event.SetStartAt(dtStart)
		event.SetEndAt(dtEnd)
		event.SetSummary(fmt.Sprintf("%s - %s", e.Subject, classLabel(e)))
		if e.HasRoom() {
			event.SetLocation(*e.Room)
		}
		if e.Teacher != nil {
			event.SetDescription(fmt.Sprintf("教师: %s", e.Teacher.Name))
		}
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", s.cfg.ICSWeeks))
	}

	filename := fmt.Sprintf("课程表_%s.ics", className)
	return []byte(cal.Serialize()), filename, nil
}

// ── 内部辅助方法 ──

func (s *exportService) fetchEntries(ctx context.Context, className string, section *string) ([]model.Timetable, error) {
	if className != "" {
		entries, err := s.repo.Timetable.ListByClass(ctx, className, section)
		if err != nil {
			s.logger.Error("查询班级课表失败", zap.Error(err))
		}
		return entries, err
	}

	entries, err := s.repo.Timetable.List(ctx)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
	}
	return entries, err
}

// resolveWeekStart 确定作为周一的锚定日期；未配置时取当前周的周一
func (s *exportService) resolveWeekStart() time.Time {
	if s.cfg.ICSWeekStart != "" {
		if t, err := time.ParseInLocation("2006-01-02", s.cfg.ICSWeekStart, time.Local); err == nil {
			return t
		}
		s.logger.Warn("export.ics_week_start 格式无效，回退到当前周", zap.String("value", s.cfg.ICSWeekStart))
	}

	now := time.Now()
	offset := (int(now.Weekday()) + 6) % 7 // 周一为 0
	monday := now.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.Local)
}

// parseClock 解析 "HH:MM"（容忍数据库返回的 "HH:MM:SS"）
func parseClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("无效的时间: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("无效的时间: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("无效的时间: %q", s)
	}
	return h, m, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
