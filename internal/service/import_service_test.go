package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/repository"
)

const legacyHeader = "id,course_id,course_code,day_number,start_time,end_time,duration_minutes,module_title,submodule_title"

func newImportFixture() (*mockCourseRepo, *mockScheduleEntryRepo, ImportService) {
	courses := newMockCourseRepo()
	entries := newMockScheduleEntryRepo()
	repo := &repository.Repository{Course: courses, ScheduleEntry: entries}
	// 缓存为 nil：Redis 降级路径
	return courses, entries, NewImportService(repo, nil, zap.NewNop())
}

func seedCourse(t *testing.T, courses *mockCourseRepo, id, code string) {
	t.Helper()
	if err := courses.Create(context.Background(), &model.Course{
		CourseID:      id,
		Code:          code,
		Title:         "销售基础",
		DurationValue: 2,
		DurationUnit:  model.DurationUnitDays,
	}); err != nil {
		t.Fatalf("预置课程失败: %v", err)
	}
}

func importCSV(t *testing.T, svc ImportService, mode ImportMode, lines ...string) *importSummary {
	t.Helper()
	csvText := legacyHeader + "\n" + strings.Join(lines, "\n")
	summary, err := svc.ImportSchedules(context.Background(), strings.NewReader(csvText), "csv", mode)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	return &importSummary{summary.TotalRows, summary.ImportedCount, summary.UpdatedCount, summary.SkippedCount, summary.ErroredCount}
}

type importSummary struct {
	total, imported, updated, skipped, errored int
}

func TestImportSchedules_BasicCreate(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	got := importCSV(t, svc, ImportModeSkip,
		`,c1,,1,9:00 a.m,11:00 a.m,,开场导论,"• 破冰`+"\n"+`• 目标对齐"`,
	)

	if got.imported != 1 || got.skipped != 0 {
		t.Fatalf("汇总错误: %+v", got)
	}
	stored, _ := entries.ListByCourse(context.Background(), "c1")
	if len(stored) != 1 {
		t.Fatalf("期望写入 1 行，实际=%d", len(stored))
	}
	e := stored[0]
	if e.StartTime != "09:00" || e.EndTime != "11:00" {
		t.Errorf("时间归一化错误: %s–%s", e.StartTime, e.EndTime)
	}
	if e.DurationMinutes != 120 {
		t.Errorf("时长应按起止时间推导为 120，实际=%d", e.DurationMinutes)
	}
	if len(e.Submodules) != 2 || e.Submodules[0] != "破冰" {
		t.Errorf("子模块解析错误: %v", e.Submodules)
	}
}

func TestImportSchedules_UnknownCourseSkipped(t *testing.T) {
	_, entries, svc := newImportFixture()

	summary, err := svc.ImportSchedules(context.Background(),
		strings.NewReader(legacyHeader+"\n,missing,,1,09:00,11:00,,模块A,"),
		"csv", ImportModeSkip)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	if summary.SkippedCount != 1 || len(summary.Skipped) != 1 {
		t.Fatalf("未知课程应记为跳过: %+v", summary)
	}
	if summary.Skipped[0].Reason != skipCourseNotFound {
		t.Errorf("跳过原因期望=%s，实际=%s", skipCourseNotFound, summary.Skipped[0].Reason)
	}
	if n := entries.countByCourse("missing"); n != 0 {
		t.Errorf("未知课程不应写入任何行，实际=%d", n)
	}
}

func TestImportSchedules_CourseCodeFallback(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	// course_id 为空时回退 course_code 自然键
	got := importCSV(t, svc, ImportModeSkip, `,,SALES-101,1,09:00,11:00,,模块A,`)
	if got.imported != 1 {
		t.Fatalf("按课程编码回退失败: %+v", got)
	}
	if n := entries.countByCourse("c1"); n != 1 {
		t.Errorf("行应挂到编码命中的课程，实际=%d", n)
	}
}

func TestImportSchedules_InvalidDayNumberSkipped(t *testing.T) {
	courses, _, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	summary, err := svc.ImportSchedules(context.Background(),
		strings.NewReader(legacyHeader+"\n,c1,,zero,09:00,11:00,,模块A,\n,c1,,0,09:00,11:00,,模块B,"),
		"csv", ImportModeSkip)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if summary.SkippedCount != 2 {
		t.Fatalf("非法天数应跳过: %+v", summary)
	}
	for _, s := range summary.Skipped {
		if s.Reason != skipInvalidDayNumber {
			t.Errorf("跳过原因期望=%s，实际=%s", skipInvalidDayNumber, s.Reason)
		}
	}
}

func TestImportSchedules_EmptyModuleSkipped(t *testing.T) {
	courses, _, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	summary, err := svc.ImportSchedules(context.Background(),
		strings.NewReader(legacyHeader+"\n,c1,,1,09:00,11:00,,NULL,"),
		"csv", ImportModeSkip)
	if err != nil {
		t.Fatalf("导入失败: %v", err)
	}
	if summary.SkippedCount != 1 || summary.Skipped[0].Reason != skipEmptyModule {
		t.Fatalf("哨兵模块名应按空模块跳过: %+v", summary)
	}
}

func TestImportSchedules_PipeFanOut(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	got := importCSV(t, svc, ImportModeSkip, `,c1,,1,09:00,11:00,,Intro | Advanced | ,`)

	// 一行拆出两个模块，行级汇总仍记 1 次导入
	if got.imported != 1 {
		t.Fatalf("行级汇总错误: %+v", got)
	}
	stored, _ := entries.ListByCourse(context.Background(), "c1")
	if len(stored) != 2 {
		t.Fatalf("竖线串应拆为 2 条记录，实际=%d", len(stored))
	}
	if stored[0].ModuleTitle != "Intro" || stored[1].ModuleTitle != "Advanced" {
		t.Errorf("拆分标题错误: %s, %s", stored[0].ModuleTitle, stored[1].ModuleTitle)
	}
}

func TestImportSchedules_ExplicitIDOnlyForFirstSplitModule(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	const rowID = "3e8e3f3e-6b1a-4b50-9e7a-2f6d9c0a1b2c"
	importCSV(t, svc, ImportModeSkip, rowID+`,c1,,1,09:00,11:00,,Intro | Advanced,`)

	first, err := entries.GetByID(context.Background(), rowID)
	if err != nil || first.ModuleTitle != "Intro" {
		t.Fatalf("显式 ID 应归第一个拆分模块: %v, %+v", err, first)
	}
	second, err := entries.GetByNaturalKey(context.Background(), "c1", 1, "09:00", "Advanced")
	if err != nil {
		t.Fatalf("第二个拆分模块应按自然键落库: %v", err)
	}
	if second.EntryID == rowID {
		t.Error("显式 ID 不应复用到后续拆分模块")
	}
}

func TestImportSchedules_ExplicitDurationWins(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	importCSV(t, svc, ImportModeSkip, `,c1,,1,09:00,11:00,90,模块A,`)

	stored, _ := entries.ListByCourse(context.Background(), "c1")
	if len(stored) != 1 || stored[0].DurationMinutes != 90 {
		t.Fatalf("行内显式时长应优先，实际=%+v", stored)
	}
}

func TestImportSchedules_SkipModeIdempotent(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	rows := []string{
		`,c1,,1,09:00,11:00,,模块A,`,
		`,c1,,1,11:00,14:00,,模块B,`,
	}
	first := importCSV(t, svc, ImportModeSkip, rows...)
	if first.imported != 2 {
		t.Fatalf("首次导入汇总错误: %+v", first)
	}

	second := importCSV(t, svc, ImportModeSkip, rows...)
	if second.imported != 0 || second.updated != 0 || second.skipped != 2 {
		t.Fatalf("skip 模式重跑应全部跳过: %+v", second)
	}
	if n := entries.countByCourse("c1"); n != 2 {
		t.Errorf("重跑不应产生净新增，实际行数=%d", n)
	}
}

func TestImportSchedules_UpsertUpdatesByNaturalKey(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")

	importCSV(t, svc, ImportModeUpsert, `,c1,,1,09:00,11:00,,模块A,• 旧子项`)
	got := importCSV(t, svc, ImportModeUpsert, `,c1,,1,09:00,11:00,,模块A,• 新子项`)

	if got.updated != 1 || got.imported != 0 {
		t.Fatalf("upsert 重跑应记为更新: %+v", got)
	}
	stored, _ := entries.ListByCourse(context.Background(), "c1")
	if len(stored) != 1 {
		t.Fatalf("upsert 不应产生重复行，实际=%d", len(stored))
	}
	if len(stored[0].Submodules) != 1 || stored[0].Submodules[0] != "新子项" {
		t.Errorf("子模块应被更新: %v", stored[0].Submodules)
	}
}

func TestImportSchedules_RowFailureDoesNotAbortBatch(t *testing.T) {
	courses, entries, svc := newImportFixture()
	seedCourse(t, courses, "c1", "SALES-101")
	entries.failCreate = true

	summary, err := svc.ImportSchedules(context.Background(),
		strings.NewReader(legacyHeader+"\n,c1,,1,09:00,11:00,,模块A,\n,missing,,1,09:00,11:00,,模块B,"),
		"csv", ImportModeSkip)
	if err != nil {
		t.Fatalf("行级失败不应使整个批次报错: %v", err)
	}
	if summary.ErroredCount != 1 || summary.SkippedCount != 1 {
		t.Fatalf("汇总错误: %+v", summary)
	}
}

func TestImportSchedules_UnsupportedInputs(t *testing.T) {
	_, _, svc := newImportFixture()

	if _, err := svc.ImportSchedules(context.Background(), strings.NewReader("x"), "pdf", ImportModeSkip); !errors.Is(err, ErrImportUnsupportedFormat) {
		t.Errorf("期望不支持格式错误，实际=%v", err)
	}
	if _, err := svc.ImportSchedules(context.Background(), strings.NewReader("x"), "csv", ImportMode("merge")); !errors.Is(err, ErrImportUnsupportedMode) {
		t.Errorf("期望不支持模式错误，实际=%v", err)
	}
	if _, err := svc.ImportSchedules(context.Background(), strings.NewReader(legacyHeader), "csv", ImportModeSkip); !errors.Is(err, ErrImportEmptyFile) {
		t.Errorf("期望空文件错误，实际=%v", err)
	}
}
