package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrInvalidEncoding 表示内容既不是合法的 UTF-8 也不是合法的 GBK
var ErrInvalidEncoding = errors.New("text is neither valid UTF-8 nor GBK")

// DecodeText 智能处理文本编码：去掉 UTF-8 BOM，不是合法 UTF-8 时按 GBK 解码。
// 已出现多字节 UTF-8 字符的内容视为损坏的 UTF-8，GBK 解码出现无法识别的字节
// 也视为失败，两种情况都返回 ErrInvalidEncoding 而不是乱码。
// 返回的内容保证是UTF-8编码。
func DecodeText(data []byte, name string) ([]byte, error) {
	if bytes.HasPrefix(data, utf8BOM) {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%s: %w", name, ErrInvalidEncoding)
		}
		return data, nil
	}

	if utf8.Valid(data) {
		return data, nil
	}
	if hasMultiByteUTF8Prefix(data) {
		return nil, fmt.Errorf("%s: invalid UTF-8: %w", name, ErrInvalidEncoding)
	}

	gbkReader := transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder())
	decodedData, err := io.ReadAll(gbkReader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s as GBK: %w", name, err)
	}
	if bytes.ContainsRune(decodedData, utf8.RuneError) {
		return nil, fmt.Errorf("%s: invalid GBK: %w", name, ErrInvalidEncoding)
	}
	return decodedData, nil
}

// hasMultiByteUTF8Prefix 报告第一个非法字节之前是否已有合法的多字节 UTF-8 字符
func hasMultiByteUTF8Prefix(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return false
		}
		if size > 1 {
			return true
		}
		data = data[size:]
	}
	return false
}

// WriteFileAtomic 先写同目录下的临时文件再重命名，保留原文件权限
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // 重命名成功后这里是空操作

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// IsDirectory 辅助函数，检查路径是否为目录
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
