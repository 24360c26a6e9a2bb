package dto

// ── 课程表模块 ──

// ModuleView 层级视图中的模块
type ModuleView struct {
	ModuleID   string   `json:"module_id"`
	Title      string   `json:"title"`
	Submodules []string `json:"submodules"`
}

// SessionView 层级视图中的节次
type SessionView struct {
	DayNumber       int          `json:"day_number"`
	Name            string       `json:"name"`
	StartTime       string       `json:"start_time"`
	EndTime         string       `json:"end_time"`
	DurationMinutes int          `json:"duration_minutes"`
	Modules         []ModuleView `json:"modules"`
}

// TimetableResponse 课程表层级视图响应
// 节次按 (天, 开始时间) 排序；模板内没有数据的节次也会出现
//（空模块列表），保证编辑界面始终呈现完整骨架
type TimetableResponse struct {
	CourseID     string        `json:"course_id"`
	DayCount     int           `json:"day_count"`
	SessionCount int           `json:"session_count"`
	Sessions     []SessionView `json:"sessions"`
}

// SaveModuleRequest 保存课程表时的模块
type SaveModuleRequest struct {
	Title      string   `json:"title"`
	Submodules []string `json:"submodules"`
}

// SaveSessionRequest 保存课程表时的节次
type SaveSessionRequest struct {
	DayNumber int                 `json:"day_number" binding:"required,min=1"`
	StartTime string              `json:"start_time" binding:"required"`
	Modules   []SaveModuleRequest `json:"modules"`
}

// SaveTimetableRequest 保存课程表请求（整表替换）
// 空标题模块在保存时被丢弃；不在当前模板内的节次被忽略
type SaveTimetableRequest struct {
	Sessions []SaveSessionRequest `json:"sessions" binding:"required"`
}

// SaveTimetableResponse 保存结果
type SaveTimetableResponse struct {
	SavedCount int `json:"saved_count"`
}

// RetemplateResponse 模板重算结果
type RetemplateResponse struct {
	DayCount     int            `json:"day_count"`
	SessionCount int            `json:"session_count"`
	KeptCount    int            `json:"kept_count"`
	DroppedCount int            `json:"dropped_count"`
	Dropped      []DroppedEntry `json:"dropped,omitempty"`
}

// DroppedEntry 模板重算中被丢弃的行（不再落在任何模板节次内）
type DroppedEntry struct {
	DayNumber   int    `json:"day_number"`
	StartTime   string `json:"start_time"`
	ModuleTitle string `json:"module_title"`
}
