package service

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ── 列表字段归一化 ────────────────────────────────────────────
//
// 职责：将历史导出数据中的「多值标量文本」解析为有序字符串列表。
// 已知三代格式：
//   1. 伪 JSON 数组字面量（单引号）："['A', 'B']"
//   2. 竖线分隔的多模块串（仅模块列表）："A | B | C"
//   3. 项目符号换行块（仅子模块列表）："• A\n- B\n* C"
//
// 所有函数必须是全函数：畸形文本是常态而非异常，解析失败时
// 退化为尽力提取，最终兜底为空列表。
// ─────────────────────────────────────────────────────────────

// 历史数据中的哨兵值（不区分大小写），一律归一为空列表
var listSentinels = map[string]bool{
	"":       true,
	"null":   true,
	"#name?": true, // Excel 公式错误残留
}

var quotedPhrasePattern = regexp.MustCompile(`'([^']+)'`)

// ParseModuleList 解析模块列表文本
// 识别顺序：数组字面量 → 竖线分隔（单值视为一项）
func ParseModuleList(raw string) []string {
	s := strings.TrimSpace(raw)
	if isListSentinel(s) {
		return []string{}
	}

	if looksLikeArrayLiteral(s) {
		return parseArrayLiteral(s)
	}

	return splitAndTrim(s, "|")
}

// ParseSubmoduleList 解析子模块列表文本
// 识别顺序：数组字面量 → 项目符号换行块
func ParseSubmoduleList(raw string) []string {
	s := strings.TrimSpace(raw)
	if isListSentinel(s) {
		return []string{}
	}

	if looksLikeArrayLiteral(s) {
		return parseArrayLiteral(s)
	}

	// 按行拆分并剥离行首项目符号
	var items []string
	for _, line := range strings.Split(s, "\n") {
		item := strings.TrimLeft(line, "•-* \t")
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	if items == nil {
		return []string{}
	}
	return items
}

// isListSentinel 空串/哨兵值判定
func isListSentinel(s string) bool {
	return listSentinels[strings.ToLower(s)]
}

func looksLikeArrayLiteral(s string) bool {
	return strings.HasPrefix(s, "[")
}

// parseArrayLiteral 解析单引号伪 JSON 数组
// 单引号改写为双引号后按 JSON 解析；失败时退化为提取所有 '...' 片段
func parseArrayLiteral(s string) []string {
	if s == "[]" {
		return []string{}
	}

	rewritten := strings.ReplaceAll(s, "'", `"`)
	var arr []string
	if err := json.Unmarshal([]byte(rewritten), &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			item = strings.TrimSpace(item)
			if item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	// 尽力提取：内容本身含引号等导致改写后不再是合法 JSON
	matches := quotedPhrasePattern.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		item := strings.TrimSpace(m[1])
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// splitAndTrim 按分隔符拆分，逐项去空白并丢弃空项
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CollapseWhitespace 将内部空白（含换行）压缩为单个空格
// 用于模块标题等单值字段的清洗
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
