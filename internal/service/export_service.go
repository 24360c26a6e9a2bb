package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportCourseNotFound = errors.New("课程不存在")
	ErrExportNoEntries      = errors.New("课程暂无课程表")
	ErrExportGenerateFail   = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 格式：按天为行、模板节次为列的网格，单元格内模块标题换行排列
//   - iCalendar 格式：每条扁平行一个 VEVENT，日期以课程开课日推算
//     （第 N 天 = 开课日 + N-1），子模块写入 DESCRIPTION
//   - 均以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入
type ExportService interface {
	// ExportTimetableXLSX 导出课程表为 Excel
	ExportTimetableXLSX(ctx context.Context, courseID string) (*bytes.Buffer, string, error)
	// ExportTimetableICS 导出课程表为 iCalendar
	ExportTimetableICS(ctx context.Context, courseID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ExportTimetableXLSX — 导出课程表为 Excel
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportTimetableXLSX(ctx context.Context, courseID string) (*bytes.Buffer, string, error) {
	course, tree, err := s.loadGroupedTimetable(ctx, courseID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课程表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 列宽：A 列为天，之后每个节次一列
	f.SetColWidth(sheetName, "A", "A", 10)
	lastCol, _ := excelize.ColumnNumberToName(1 + len(tree.Template.Slots))
	f.SetColWidth(sheetName, "B", lastCol, 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 课程表", course.Title))
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", lastCol))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头：节次名 + 时间
	f.SetCellValue(sheetName, "A2", "天")
	f.SetCellStyle(sheetName, "A2", fmt.Sprintf("%s2", lastCol), headerStyle)
	for i, slot := range tree.Template.Slots {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col),
			fmt.Sprintf("%s (%s–%s)", slot.Name, slot.StartTime, slot.EndTime))
	}

	// 数据：一天一行，单元格内模块标题换行排列
	for day := 1; day <= tree.Template.DayCount; day++ {
		rowIdx := 2 + day
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIdx), fmt.Sprintf("第%d天", day))
		for i, slot := range tree.Template.Slots {
			key := SessionKey{DayNumber: day, StartTime: slot.StartTime}
			sess, ok := tree.Sessions[key]
			if !ok {
				continue
			}
			var lines []string
			for _, mod := range sess.Modules {
				if mod.Title != "" {
					lines = append(lines, mod.Title)
				}
			}
			col, _ := excelize.ColumnNumberToName(2 + i)
			cell := fmt.Sprintf("%s%d", col, rowIdx)
			f.SetCellValue(sheetName, cell, strings.Join(lines, "\n"))
			f.SetCellStyle(sheetName, cell, cell, cellStyle)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_课程表.xlsx", course.Code)
	return buf, filename, nil
}

// ════════════════════════════════════════════════════════════
// ExportTimetableICS — 导出课程表为 iCalendar
// ════════════════════════════════════════════════════════════

func (s *exportService) ExportTimetableICS(ctx context.Context, courseID string) (*bytes.Buffer, string, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportCourseNotFound
		}
		return nil, "", err
	}

	entries, err := s.repo.ScheduleEntry.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程表明细失败", zap.Error(err))
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "", ErrExportNoEntries
	}

	// 第 N 天 = 开课日 + N-1；未设置开课日时以今天为第 1 天
	anchor := time.Now()
	if course.StartDate != nil {
		anchor = *course.StartDate
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//trainmice//timetable//CN")

	for _, entry := range entries {
		day := anchor.AddDate(0, 0, entry.DayNumber-1)
		start := clockOnDate(day, entry.StartTime)
		end := clockOnDate(day, entry.EndTime)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1) // 跨午夜行
		}

		evt := cal.AddEvent(uuid.New().String())
		evt.SetCreatedTime(time.Now())
		evt.SetDtStampTime(time.Now())
		evt.SetStartAt(start)
		evt.SetEndAt(end)
		evt.SetSummary(fmt.Sprintf("%s · %s", course.Title, entry.ModuleTitle))
		if len(entry.Submodules) > 0 {
			evt.SetDescription(strings.Join(entry.Submodules, "\n"))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s_课程表.ics", course.Code)
	return buf, filename, nil
}

// ── 内部辅助 ──

func (s *exportService) loadGroupedTimetable(ctx context.Context, courseID string) (*model.Course, *TimetableTree, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrExportCourseNotFound
		}
		return nil, nil, err
	}

	entries, err := s.repo.ScheduleEntry.ListByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("查询课程表明细失败", zap.Error(err))
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, ErrExportNoEntries
	}

	tmpl := ResolveSessionTemplate(course.DurationValue, course.DurationUnit)
	return course, GroupEntries(entries, tmpl), nil
}

// clockOnDate 将 "HH:MM" 套到具体日期上
func clockOnDate(day time.Time, clock string) time.Time {
	minutes, ok := clockToMinutes(clock)
	if !ok {
		minutes = 9 * 60
	}
	return day.Add(time.Duration(minutes) * time.Minute)
}
