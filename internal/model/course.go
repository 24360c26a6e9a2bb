package model

import "time"

// 课程时长单位
const (
	DurationUnitDays    = "days"
	DurationUnitHours   = "hours"
	DurationUnitHalfDay = "half_day"
)

// Course 课程表 — 对应 courses
type Course struct {
	CourseID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code          string     `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"` // 对外唯一课程编码（导入自然键）
	Title         string     `gorm:"type:varchar(255);not null"                     json:"title"`
	Description   string     `gorm:"type:text;not null;default:''"                  json:"description,omitempty"`
	DurationValue float64    `gorm:"type:numeric(6,2);not null;default:1"           json:"duration_value"`
	DurationUnit  string     `gorm:"type:varchar(10);not null;default:'days'"       json:"duration_unit"` // days | hours | half_day
	StartDate     *time.Time `gorm:"type:date"                                      json:"start_date,omitempty"`
	BaseModel

	// 关联
	Entries []ScheduleEntry `gorm:"foreignKey:CourseID" json:"entries,omitempty"`
}

func (Course) TableName() string { return "courses" }
