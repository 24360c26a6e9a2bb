package model

// ScheduleEntry 课程表明细 — 对应 schedule_entries
//
// 扁平持久化形态：每行代表「第几天 + 时间段 + 一个教学模块」。
// 同一 (course_id, day_number, start_time, end_time) 下的多行属于
// 同一节次的并列模块，不是重复数据。
type ScheduleEntry struct {
	EntryID         string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	CourseID        string      `gorm:"type:uuid;not null;index"                       json:"course_id"`
	DayNumber       int         `gorm:"type:smallint;not null"                         json:"day_number"` // 1-based
	StartTime       string      `gorm:"type:varchar(5);not null"                       json:"start_time"` // HH:MM
	EndTime         string      `gorm:"type:varchar(5);not null"                       json:"end_time"`   // HH:MM
	ModuleTitle     string      `gorm:"type:varchar(255);not null"                     json:"module_title"`
	Submodules      StringArray `gorm:"type:text;not null;default:'[]'"                json:"submodules"`
	DurationMinutes int         `gorm:"not null;default:0"                             json:"duration_minutes"`
	BaseModel

	// 关联
	Course *Course `gorm:"foreignKey:CourseID;references:CourseID" json:"course,omitempty"`
}

func (ScheduleEntry) TableName() string { return "schedule_entries" }
