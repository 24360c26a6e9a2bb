package service

import (
	"reflect"
	"testing"
)

// ── ParseModuleList 测试 ──

func TestParseModuleList_PipeDelimited(t *testing.T) {
	got := ParseModuleList("Intro | Advanced | ")
	want := []string{"Intro", "Advanced"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("竖线分隔解析错误，期望=%v，实际=%v", want, got)
	}
}

func TestParseModuleList_SingleValue(t *testing.T) {
	got := ParseModuleList("  Sales Fundamentals  ")
	want := []string{"Sales Fundamentals"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("单值应视为一项，期望=%v，实际=%v", want, got)
	}
}

func TestParseModuleList_ArrayLiteral(t *testing.T) {
	got := ParseModuleList("['X', 'Y']")
	want := []string{"X", "Y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("伪 JSON 数组解析错误，期望=%v，实际=%v", want, got)
	}

	if got := ParseModuleList("[]"); len(got) != 0 {
		t.Errorf("空数组字面量应归一为空列表，实际=%v", got)
	}
}

func TestParseModuleList_Sentinels(t *testing.T) {
	for _, raw := range []string{"", "NULL", "null", "#NAME?", "#name?"} {
		if got := ParseModuleList(raw); len(got) != 0 {
			t.Errorf("哨兵值 %q 应归一为空列表，实际=%v", raw, got)
		}
	}
}

func TestParseModuleList_MalformedArrayFallback(t *testing.T) {
	// 内容含撇号导致引号改写后不再是合法 JSON → 退化为提取 '...' 片段
	got := ParseModuleList("['Workplace Safety', broken")
	want := []string{"Workplace Safety"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("畸形数组应尽力提取引号片段，期望=%v，实际=%v", want, got)
	}

	// 完全无法提取时兜底为空列表，绝不报错
	if got := ParseModuleList("[{{{"); len(got) != 0 {
		t.Errorf("无法提取时应返回空列表，实际=%v", got)
	}
}

// ── ParseSubmoduleList 测试 ──

func TestParseSubmoduleList_BulletLines(t *testing.T) {
	got := ParseSubmoduleList("• A\n- B\n\nC")
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("项目符号块解析错误，期望=%v，实际=%v", want, got)
	}
}

func TestParseSubmoduleList_ArrayLiteral(t *testing.T) {
	got := ParseSubmoduleList("['讲解', '练习', '答疑']")
	want := []string{"讲解", "练习", "答疑"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("伪 JSON 数组解析错误，期望=%v，实际=%v", want, got)
	}
}

func TestParseSubmoduleList_Sentinels(t *testing.T) {
	for _, raw := range []string{"", "NULL", "#NAME?", "[]"} {
		if got := ParseSubmoduleList(raw); len(got) != 0 {
			t.Errorf("哨兵值 %q 应归一为空列表，实际=%v", raw, got)
		}
	}
}

// ── CollapseWhitespace 测试 ──

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("Module\n  One   Title"); got != "Module One Title" {
		t.Errorf("内部空白应压缩为单个空格，实际=%q", got)
	}
}
