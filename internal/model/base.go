package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 字符串数组自定义类型 ──

// StringArray 以 JSON 文本存储的有序字符串列表，实现 GORM Scanner/Valuer 接口。
// 子模块名称可能包含逗号、引号等任意字符，因此不使用 PostgreSQL 数组字面量。
type StringArray []string

// Scan 将数据库中的 JSON 文本解析为 []string。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = StringArray{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*a = StringArray{}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("StringArray.Scan: invalid json %q: %w", string(b), err)
	}
	*a = arr
	return nil
}

// Value 将 []string 序列化为 JSON 文本。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
