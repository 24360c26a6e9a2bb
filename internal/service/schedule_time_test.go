package service

import "testing"

// ── NormalizeClockTime 测试 ──

func TestNormalizeClockTime(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		// 已是规范形式
		{"09:00", "09:00"},
		{"14:30", "14:30"},
		// 缺零填充
		{"9:00", "09:00"},
		// 历史上/下午写法（点号当冒号用）
		{"9:00 a.m", "09:00"},
		{"2.00 p.m", "14:00"},
		{"12.00 p.m", "12:00"},
		{"12:00 a.m", "00:00"},
		{"5 pm", "17:00"},
		{"11am", "11:00"},
		// 无法解析 → 默认值
		{"", "09:00"},
		{"   ", "09:00"},
		{"morning", "09:00"},
		{"99:99", "09:00"},
	}

	for _, c := range cases {
		if got := NormalizeClockTime(c.raw); got != c.want {
			t.Errorf("NormalizeClockTime(%q) 期望=%s，实际=%s", c.raw, c.want, got)
		}
	}
}

// ── ClockDurationMinutes 测试 ──

func TestClockDurationMinutes(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"09:00", "11:00", 120},
		{"11:00", "14:00", 180},
		// 跨午夜策略：end < start 时 +1440
		{"23:00", "01:00", 120},
		// 起止相同
		{"09:00", "09:00", 0},
	}

	for _, c := range cases {
		if got := ClockDurationMinutes(c.start, c.end); got != c.want {
			t.Errorf("ClockDurationMinutes(%q, %q) 期望=%d，实际=%d", c.start, c.end, c.want, got)
		}
	}
}

func TestClockDurationMinutes_Fallback(t *testing.T) {
	// 任一时间不完整时返回兜底 120
	if got := ClockDurationMinutes("", "11:00"); got != FallbackDurationMinutes {
		t.Errorf("起始时间为空应返回兜底值 120，实际=%d", got)
	}
	if got := ClockDurationMinutes("09:00", "midnight"); got != FallbackDurationMinutes {
		t.Errorf("结束时间无法解析应返回兜底值 120，实际=%d", got)
	}
}
