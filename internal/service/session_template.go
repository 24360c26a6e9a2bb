package service

import (
	"math"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
)

// ── 节次模板解析 ──────────────────────────────────────────────
//
// 固定业务日历（不按课程单独配置）：
//   - half_day：固定 2 节（09:00–11:00 / 11:00–14:00），1 天，忽略时长数值
//   - days：每天 4 节，天数 = round(时长)，最少 1 天
//   - hours：时长 ≤ 2 小时为 1 节，否则 2 节，1 天
//
// 模板同时用于：为空课程表预填骨架、约束编辑视图中合法的
// (天, 开始时间) 分组键。
// ─────────────────────────────────────────────────────────────

// SessionSlot 一个节次时间段
type SessionSlot struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SessionTemplate 课程时长决定的课程表形状
type SessionTemplate struct {
	Slots    []SessionSlot `json:"slots"`     // 每天的节次（有序）
	DayCount int           `json:"day_count"` // 天数（1-based）
}

// 业务日历固定的四个节次
var dailySessionSlots = []SessionSlot{
	{Name: "第1节", StartTime: "09:00", EndTime: "11:00"},
	{Name: "第2节", StartTime: "11:00", EndTime: "14:00"},
	{Name: "第3节", StartTime: "14:00", EndTime: "16:00"},
	{Name: "第4节", StartTime: "16:00", EndTime: "18:00"},
}

// ResolveSessionTemplate 根据课程时长解析节次模板
func ResolveSessionTemplate(durationValue float64, durationUnit string) SessionTemplate {
	switch durationUnit {
	case model.DurationUnitHalfDay:
		return SessionTemplate{Slots: cloneSlots(dailySessionSlots[:2]), DayCount: 1}

	case model.DurationUnitHours:
		n := 2
		if durationValue <= 2 {
			n = 1
		}
		return SessionTemplate{Slots: cloneSlots(dailySessionSlots[:n]), DayCount: 1}

	default: // days
		dayCount := int(math.Round(durationValue))
		if dayCount < 1 {
			dayCount = 1
		}
		return SessionTemplate{Slots: cloneSlots(dailySessionSlots), DayCount: dayCount}
	}
}

// SlotByStartTime 按开始时间查找模板节次
func (t SessionTemplate) SlotByStartTime(startTime string) (SessionSlot, bool) {
	for _, slot := range t.Slots {
		if slot.StartTime == startTime {
			return slot, true
		}
	}
	return SessionSlot{}, false
}

func cloneSlots(slots []SessionSlot) []SessionSlot {
	out := make([]SessionSlot, len(slots))
	copy(out, slots)
	return out
}
