package dto

// ── 课程模块 ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code          string  `json:"code" binding:"required,max=50"`
	Title         string  `json:"title" binding:"required,max=255"`
	Description   string  `json:"description" binding:"omitempty"`
	DurationValue float64 `json:"duration_value" binding:"required,gt=0"`
	DurationUnit  string  `json:"duration_unit" binding:"required,oneof=days hours half_day"`
	StartDate     *string `json:"start_date" binding:"omitempty"` // YYYY-MM-DD
}

// UpdateCourseRequest 更新课程请求（部分字段）
//
// 注意：修改时长不会隐式重算课程表模板；调用方需要显式调用
// retemplate 接口（见课程表模块）
type UpdateCourseRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=255"`
	Description   *string  `json:"description" binding:"omitempty"`
	DurationValue *float64 `json:"duration_value" binding:"omitempty,gt=0"`
	DurationUnit  *string  `json:"duration_unit" binding:"omitempty,oneof=days hours half_day"`
	StartDate     *string  `json:"start_date" binding:"omitempty"`
}

// CourseResponse 课程响应
type CourseResponse struct {
	CourseID      string  `json:"course_id"`
	Code          string  `json:"code"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	DurationValue float64 `json:"duration_value"`
	DurationUnit  string  `json:"duration_unit"`
	StartDate     *string `json:"start_date,omitempty"`
}
