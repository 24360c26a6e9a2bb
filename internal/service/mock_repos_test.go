package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
)

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = "course-" + course.Code
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

// ── Mock ScheduleEntryRepository ──

type storedEntry struct {
	entry model.ScheduleEntry
	seq   int // 插入顺序，用于稳定排序
}

type mockScheduleEntryRepo struct {
	entries map[string]*storedEntry
	nextSeq int
	nextID  int

	// 故障注入
	failCreate  bool
	failReplace bool
}

func newMockScheduleEntryRepo() *mockScheduleEntryRepo {
	return &mockScheduleEntryRepo{entries: make(map[string]*storedEntry)}
}

func (m *mockScheduleEntryRepo) ListByCourse(_ context.Context, courseID string) ([]model.ScheduleEntry, error) {
	var stored []*storedEntry
	for _, se := range m.entries {
		if se.entry.CourseID == courseID {
			stored = append(stored, se)
		}
	}
	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i].entry, stored[j].entry
		if a.DayNumber != b.DayNumber {
			return a.DayNumber < b.DayNumber
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return stored[i].seq < stored[j].seq
	})
	result := make([]model.ScheduleEntry, 0, len(stored))
	for _, se := range stored {
		result = append(result, se.entry)
	}
	return result, nil
}

func (m *mockScheduleEntryRepo) GetByID(_ context.Context, id string) (*model.ScheduleEntry, error) {
	if se, ok := m.entries[id]; ok {
		copied := se.entry
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) GetByNaturalKey(_ context.Context, courseID string, dayNumber int, startTime, moduleTitle string) (*model.ScheduleEntry, error) {
	for _, se := range m.entries {
		e := se.entry
		if e.CourseID == courseID && e.DayNumber == dayNumber && e.StartTime == startTime && e.ModuleTitle == moduleTitle {
			copied := e
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleEntryRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	if m.failCreate {
		return errors.New("模拟存储故障")
	}
	if entry.EntryID == "" {
		m.nextID++
		entry.EntryID = fmt.Sprintf("entry-%d", m.nextID)
	}
	m.nextSeq++
	copied := *entry
	m.entries[entry.EntryID] = &storedEntry{entry: copied, seq: m.nextSeq}
	return nil
}

func (m *mockScheduleEntryRepo) Update(_ context.Context, entry *model.ScheduleEntry) error {
	se, ok := m.entries[entry.EntryID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *entry
	se.entry = copied
	return nil
}

func (m *mockScheduleEntryRepo) DeleteByCourse(_ context.Context, courseID string) error {
	for id, se := range m.entries {
		if se.entry.CourseID == courseID {
			delete(m.entries, id)
		}
	}
	return nil
}

// ReplaceByCourse 模拟事务契约：失败时旧数据保持原样
func (m *mockScheduleEntryRepo) ReplaceByCourse(ctx context.Context, courseID string, entries []model.ScheduleEntry) error {
	if m.failReplace {
		return errors.New("模拟事务回滚")
	}
	if err := m.DeleteByCourse(ctx, courseID); err != nil {
		return err
	}
	for i := range entries {
		if err := m.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockScheduleEntryRepo) countByCourse(courseID string) int {
	n := 0
	for _, se := range m.entries {
		if se.entry.CourseID == courseID {
			n++
		}
	}
	return n
}
