package processor

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/yleoer/zhsync/pkg/chapter"
	"github.com/yleoer/zhsync/pkg/converter"
	"github.com/yleoer/zhsync/pkg/util"
)

// Status 是单个章节文件的处理结果
type Status string

const (
	StatusUpdated        Status = "updated"
	StatusUnchanged      Status = "unchanged"
	StatusSkippedMissing Status = "skipped_missing"
	StatusSkippedNotList Status = "skipped_not_list"
	StatusFailed         Status = "failed"
)

// Succeeded 报告该状态是否计入成功数
func (s Status) Succeeded() bool {
	return s == StatusUpdated || s == StatusUnchanged
}

// Result 记录一个文件的处理结果
type Result struct {
	Path       string
	Status     Status
	Paragraphs int
	Bytes      int
	Err        error // 仅 StatusFailed 时设置
}

// Options 控制 ChapterProcessor 的行为
type Options struct {
	SourceField   string // 默认 chapter.SourceField
	TargetField   string // 默认 chapter.TargetField
	DryRun        bool   // 只计算不写回
	SkipUnchanged bool   // 输出与现有内容一致时不写文件
}

// ChapterProcessor 负责转换单个章节文件
type ChapterProcessor struct {
	conv   *converter.Converter
	opts   Options
	logger *log.Logger
}

// NewChapterProcessor 创建一个新的 ChapterProcessor 实例
func NewChapterProcessor(conv *converter.Converter, opts Options, logger *log.Logger) *ChapterProcessor {
	if opts.SourceField == "" {
		opts.SourceField = chapter.SourceField
	}
	if opts.TargetField == "" {
		opts.TargetField = chapter.TargetField
	}
	return &ChapterProcessor{conv: conv, opts: opts, logger: logger}
}

// Process 读取章节文件，把源字段的段落转换后写入目标字段。
// 缺少源字段或源字段不是数组时跳过且不改动文件；读写或解析失败时返回错误。
func (p *ChapterProcessor) Process(path string) (Result, error) {
	res := Result{Path: path}
	name := filepath.Base(path)
	p.logger.Printf("Processing: %s", name)

	original, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err := util.DecodeText(original, name)
	if err != nil {
		return res, err
	}
	doc, err := chapter.Parse(data)
	if err != nil {
		return res, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	source, ok := doc.Get(p.opts.SourceField)
	if !ok {
		p.logger.Printf("  -> WARN: No %s found, skipping.", p.opts.SourceField)
		res.Status = StatusSkippedMissing
		return res, nil
	}
	paragraphs, ok := source.([]any)
	if !ok {
		p.logger.Printf("  -> WARN: %s is not a list, skipping.", p.opts.SourceField)
		res.Status = StatusSkippedNotList
		return res, nil
	}

	converted, err := p.conv.ConvertValue(paragraphs)
	if err != nil {
		return res, fmt.Errorf("failed to convert %s: %w", path, err)
	}
	res.Paragraphs = len(paragraphs)
	p.logger.Printf("  -> Converted %d paragraphs", res.Paragraphs)
	doc.Set(p.opts.TargetField, converted)

	out, err := chapter.Marshal(doc)
	if err != nil {
		return res, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	res.Bytes = len(out)

	if p.opts.SkipUnchanged && bytes.Equal(out, original) {
		p.logger.Printf("  -> %s already up to date", p.opts.TargetField)
		res.Status = StatusUnchanged
		return res, nil
	}
	if p.opts.DryRun {
		p.logger.Printf("  -> Dry run, %s not written", name)
		res.Status = StatusUpdated
		return res, nil
	}
	if err := util.WriteFileAtomic(path, out); err != nil {
		return res, err
	}
	p.logger.Printf("  -> Updated %s", p.opts.TargetField)
	res.Status = StatusUpdated
	return res, nil
}
