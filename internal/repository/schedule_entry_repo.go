package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
)

// ScheduleEntryRepository 课程表明细数据访问接口
type ScheduleEntryRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]model.ScheduleEntry, error)
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	// GetByNaturalKey 按自然键查找：(课程, 第几天, 开始时间, 模块标题)
	// 用于导入时的重复检测
	GetByNaturalKey(ctx context.Context, courseID string, dayNumber int, startTime, moduleTitle string) (*model.ScheduleEntry, error)
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	Update(ctx context.Context, entry *model.ScheduleEntry) error
	DeleteByCourse(ctx context.Context, courseID string) error
	// ReplaceByCourse 在单个事务中全量替换课程的课程表：
	// 先删除旧行，再批量插入新行。任一步失败则整体回滚，
	// 不允许出现"删了旧表、新表没写进去"的中间状态
	ReplaceByCourse(ctx context.Context, courseID string, entries []model.ScheduleEntry) error
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo 创建 ScheduleEntryRepository 实例
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) ListByCourse(ctx context.Context, courseID string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("day_number ASC, start_time ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).Where("entry_id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) GetByNaturalKey(ctx context.Context, courseID string, dayNumber int, startTime, moduleTitle string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND day_number = ? AND start_time = ? AND module_title = ?",
			courseID, dayNumber, startTime, moduleTitle).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *scheduleEntryRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&model.ScheduleEntry{}).Error
}

func (r *scheduleEntryRepo) ReplaceByCourse(ctx context.Context, courseID string, entries []model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).
			Delete(&model.ScheduleEntry{}).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
