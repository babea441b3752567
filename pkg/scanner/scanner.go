package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
)

// DefaultPattern 匹配 chapter-01.json 这类章节文件名
const DefaultPattern = "chapter-*.json"

// ChapterScanner 负责在章节目录中找出需要同步的文件
type ChapterScanner struct {
	pattern string
	matcher glob.Glob
}

// NewChapterScanner 编译文件名模式，pattern 为空时使用 DefaultPattern
func NewChapterScanner(pattern string) (*ChapterScanner, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid chapter file pattern %q: %w", pattern, err)
	}
	return &ChapterScanner{pattern: pattern, matcher: g}, nil
}

func (s *ChapterScanner) Pattern() string {
	return s.pattern
}

// Match 判断文件名（不含目录）是否为章节文件
func (s *ChapterScanner) Match(name string) bool {
	return s.matcher.Match(name)
}

// FindChapterFiles 列出目录下（不递归）匹配的普通文件，按文件名排序
func (s *ChapterScanner) FindChapterFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read chapters directory %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !s.Match(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
