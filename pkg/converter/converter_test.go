package converter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConverter 用逐字替换模拟 OpenCC
type fakeConverter struct {
	chars map[string]string
	err   error
	calls int
}

func newFakeConverter() *fakeConverter {
	return &fakeConverter{chars: map[string]string{
		"简": "簡", "体": "體", "国": "國", "发": "發", "剧": "劇", "这": "這",
	}}
}

func (f *fakeConverter) SimToTrad(text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	for from, to := range f.chars {
		text = strings.ReplaceAll(text, from, to)
	}
	return text, nil
}

func TestConvertTextAppliesTableAfterConversion(t *testing.T) {
	c := New(newFakeConverter(), DefaultTable())

	out, err := c.ConvertText("悉尼歌剧院")
	require.NoError(t, err)
	assert.Equal(t, "雪梨歌劇院", out)
}

func TestConvertTextEmptyTable(t *testing.T) {
	c := New(newFakeConverter(), Table{})

	out, err := c.ConvertText("悉尼歌剧院")
	require.NoError(t, err)
	assert.Equal(t, "悉尼歌劇院", out)
}

func TestConvertTextTableOrder(t *testing.T) {
	table, err := NewTable([]Substitution{
		{From: "甲", To: "乙"},
		{From: "乙", To: "丙"},
	})
	require.NoError(t, err)
	c := New(newFakeConverter(), table)

	out, err := c.ConvertText("甲乙")
	require.NoError(t, err)
	assert.Equal(t, "丙丙", out)
}

func TestConvertTextMatchesConvertedForm(t *testing.T) {
	// 键按转换后的文本匹配，简体写法的键不会命中
	table, err := NewTable([]Substitution{{From: "国", To: "X"}})
	require.NoError(t, err)
	c := New(newFakeConverter(), table)

	out, err := c.ConvertText("中国")
	require.NoError(t, err)
	assert.Equal(t, "中國", out)
}

func TestConvertParagraphsKeepsAlignment(t *testing.T) {
	c := New(newFakeConverter(), DefaultTable())
	in := []string{"这是简体", "", "悉尼", "发"}

	out, err := c.ConvertParagraphs(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"這是簡體", "", "雪梨", "發"}, out)
	assert.Equal(t, []string{"这是简体", "", "悉尼", "发"}, in, "input must not be modified")
}

func TestConvertParagraphsPropagatesError(t *testing.T) {
	fake := newFakeConverter()
	fake.err = errors.New("dictionary gone")
	c := New(fake, Table{})

	_, err := c.ConvertParagraphs([]string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls, "conversion must not be retried or continued")
}

func TestConvertValue(t *testing.T) {
	c := New(newFakeConverter(), DefaultTable())

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "string", in: "简体", want: "簡體"},
		{name: "string slice", in: []string{"悉尼", "国"}, want: []string{"雪梨", "國"}},
		{name: "any slice keeps non-strings", in: []any{"国", 3.5, nil}, want: []any{"國", 3.5, nil}},
		{name: "number", in: 42, want: 42},
		{name: "nil", in: nil, want: nil},
		{name: "map", in: map[string]any{"k": "国"}, want: map[string]any{"k": "国"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ConvertValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	c := New(newFakeConverter(), DefaultTable())
	first, err := c.ConvertText("悉尼的简体")
	require.NoError(t, err)
	second, err := c.ConvertText("悉尼的简体")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
