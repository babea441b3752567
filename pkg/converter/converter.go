package converter

// TextConverter 定义文本转换器接口
type TextConverter interface {
	SimToTrad(text string) (string, error) // 将简体中文转换为繁体
}

// Converter 在基础转换之后按顺序套用替换表
type Converter struct {
	base  TextConverter
	table Table
}

// New 创建一个 Converter；table 为空时只做基础转换
func New(base TextConverter, table Table) *Converter {
	return &Converter{base: base, table: table}
}

// Table 返回当前使用的替换表
func (c *Converter) Table() Table {
	return c.table
}

// ConvertText 转换单个字符串，然后套用替换表
func (c *Converter) ConvertText(text string) (string, error) {
	out, err := c.base.SimToTrad(text)
	if err != nil {
		return "", err
	}
	return c.table.Apply(out), nil
}

// ConvertParagraphs 逐段转换，结果与输入一一对应
func (c *Converter) ConvertParagraphs(paragraphs []string) ([]string, error) {
	out := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		converted, err := c.ConvertText(p)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}

// ConvertValue 转换字符串或字符串序列，其他类型原样返回。
// 序列中的非字符串元素保持原位不变。
func (c *Converter) ConvertValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return c.ConvertText(val)
	case []string:
		return c.ConvertParagraphs(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				out[i] = item
				continue
			}
			converted, err := c.ConvertText(s)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	default:
		return v, nil
	}
}
