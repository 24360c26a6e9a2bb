package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ── 时间文本归一化 ────────────────────────────────────────────
//
// 职责：将历史导出数据中五花八门的时间写法归一为 24 小时制 "HH:MM"。
//
// 设计决策：
//   - 这是历史数据摄取，不是校验边界：无法解析时返回默认值，永不报错
//   - 支持 "HH:MM" / "H:MM" / "9:00 a.m" / "2.00 p.m"（点号当冒号用）
//   - 12 AM → 0 点；12 PM 保持 12 点；其余 PM 加 12
//   - 跨午夜时长：end < start 时加 1440 分钟。代价是无法区分真正的
//     负时长录入错误与跨夜课次，属于已接受的歧义
// ─────────────────────────────────────────────────────────────

const (
	// DefaultStartTime 无法解析时间文本时的兜底值
	DefaultStartTime = "09:00"
	// FallbackDurationMinutes 起止时间不完整时的兜底时长
	FallbackDurationMinutes = 120
)

var (
	clockDigitsPattern = regexp.MustCompile(`(\d{1,2})(?:[.:](\d{1,2}))?`)
	meridiemPattern    = regexp.MustCompile(`(?i)([ap])[.\s]*m`)
)

// NormalizeClockTime 将任意历史时间文本归一为 "HH:MM"
func NormalizeClockTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultStartTime
	}

	m := clockDigitsPattern.FindStringSubmatch(s)
	if m == nil {
		return DefaultStartTime
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultStartTime
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil {
			return DefaultStartTime
		}
	}

	// 上/下午标记：历史数据中常见 "a.m" / "p.m" / "am" / "pm"
	if mer := meridiemPattern.FindStringSubmatch(s); mer != nil {
		switch strings.ToLower(mer[1]) {
		case "a":
			if hour == 12 {
				hour = 0
			}
		case "p":
			if hour != 12 {
				hour += 12
			}
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return DefaultStartTime
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ClockDurationMinutes 计算两个 "HH:MM" 之间的分钟数
// end 早于 start 时视为跨午夜（+1440）；任一时间不完整时返回兜底 120
func ClockDurationMinutes(start, end string) int {
	s, ok := clockToMinutes(start)
	if !ok {
		return FallbackDurationMinutes
	}
	e, ok := clockToMinutes(end)
	if !ok {
		return FallbackDurationMinutes
	}

	diff := e - s
	if diff < 0 {
		diff += 24 * 60
	}
	return diff
}

// clockToMinutes "HH:MM" → 自午夜起的分钟数；要求恰好两个数字段
func clockToMinutes(t string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(t), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}
