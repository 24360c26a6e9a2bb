package dto

// ── 历史课程表导入模块 ──

// SkippedRow 被跳过的行及原因分类
type SkippedRow struct {
	Row    int    `json:"row"`    // 1-based 数据行号（不含表头）
	Reason string `json:"reason"` // course_not_found | invalid_day_number | already_exists | empty_module
}

// ErroredRow 处理失败的行及底层错误信息
type ErroredRow struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummaryResponse 导入批次汇总
// 批次永不中途放弃：每行独立处理，结果只体现在计数与明细中
type ImportSummaryResponse struct {
	Mode          string       `json:"mode"` // skip | upsert
	TotalRows     int          `json:"total_rows"`
	ImportedCount int          `json:"imported_count"`
	UpdatedCount  int          `json:"updated_count"`
	SkippedCount  int          `json:"skipped_count"`
	ErroredCount  int          `json:"errored_count"`
	Skipped       []SkippedRow `json:"skipped,omitempty"`
	Errored       []ErroredRow `json:"errored,omitempty"`
}
