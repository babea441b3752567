package converter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySubstitution 表示替换规则的 From 为空
var ErrEmptySubstitution = errors.New("substitution has empty 'from'")

// Substitution 把转换结果中的 From 字面替换为 To
type Substitution struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// Table 是有序且不可变的替换表，零值即空表
type Table struct {
	entries []Substitution
}

// 内置的用词偏好。键按转换后的文本匹配，所以只收录转换前后字形不变的词。
var defaultSubstitutions = []Substitution{
	{From: "悉尼", To: "雪梨"},
	{From: "堪培拉", To: "坎培拉"},
	{From: "布里斯班", To: "布里斯本"},
	{From: "珀斯", To: "伯斯"},
}

// NewTable 校验并复制替换规则
func NewTable(entries []Substitution) (Table, error) {
	out := make([]Substitution, 0, len(entries))
	for i, e := range entries {
		if e.From == "" {
			return Table{}, fmt.Errorf("entry %d: %w", i, ErrEmptySubstitution)
		}
		out = append(out, e)
	}
	return Table{entries: out}, nil
}

// DefaultTable 返回内置替换表
func DefaultTable() Table {
	t, _ := NewTable(defaultSubstitutions)
	return t
}

// Entries 返回替换规则的副本
func (t Table) Entries() []Substitution {
	out := make([]Substitution, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t Table) Len() int {
	return len(t.entries)
}

// Apply 按表中顺序逐条做字面替换
func (t Table) Apply(text string) string {
	for _, e := range t.entries {
		text = strings.ReplaceAll(text, e.From, e.To)
	}
	return text
}

// Fingerprint 返回替换表内容的 sha256，用于在历史记录中区分不同的表
func (t Table) Fingerprint() string {
	h := sha256.New()
	for _, e := range t.entries {
		h.Write([]byte(e.From))
		h.Write([]byte{0})
		h.Write([]byte(e.To))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
