package converter

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/liuzl/gocc"
)

// DefaultConversion 对应 OpenCC 的 s2t.json：Simplified Chinese to Traditional Chinese
const DefaultConversion = "s2t"

const probeText = "简体中文"

// ErrConverterUnavailable 表示 OpenCC 字典无法加载或转换结果异常
var ErrConverterUnavailable = errors.New("OpenCC converter unavailable")

// openCCConverter 是 TextConverter 的一个实现
type openCCConverter struct {
	converter  *gocc.OpenCC
	conversion string
	logger     *log.Logger
}

// NewOpenCCConverter 初始化 OpenCC 转换器，并用一次试转换确认字典可用
func NewOpenCCConverter(conversion string, logger *log.Logger) (TextConverter, error) {
	if conversion == "" {
		conversion = DefaultConversion
	}
	cc, err := gocc.New(conversion)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load %q dictionaries (is the gocc config/dictionary directory installed?): %v",
			ErrConverterUnavailable, conversion, err)
	}
	c := &openCCConverter{converter: cc, conversion: conversion, logger: logger}
	if err := c.probe(); err != nil {
		return nil, err
	}
	logger.Printf("OpenCC converter (%s) initialized.", conversion)
	return c, nil
}

// SimToTrad 将简体中文转换为繁体
func (c *openCCConverter) SimToTrad(text string) (string, error) {
	out, err := c.converter.Convert(text)
	if err != nil {
		return "", fmt.Errorf("OpenCC %s conversion failed: %w", c.conversion, err)
	}
	return out, nil
}

// probe 在启动时试转换一次。简转繁的配置必须真的改变了文本，
// 否则说明字典是空的。
func (c *openCCConverter) probe() error {
	out, err := c.converter.Convert(probeText)
	if err != nil {
		return fmt.Errorf("%w: probe conversion failed: %v", ErrConverterUnavailable, err)
	}
	if strings.HasPrefix(c.conversion, "s2") && out == probeText {
		return fmt.Errorf("%w: %q conversion left %q unchanged, dictionaries look empty",
			ErrConverterUnavailable, c.conversion, probeText)
	}
	return nil
}
