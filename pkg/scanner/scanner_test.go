package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindChapterFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"chapter-10.json", "chapter-02.json", "chapter-01.json", "notes.json", "chapter-03.json.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "chapter-99.json"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "chapter-04.json"), []byte("{}"), 0644))

	s, err := NewChapterScanner("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPattern, s.Pattern())

	files, err := s.FindChapterFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "chapter-01.json"),
		filepath.Join(dir, "chapter-02.json"),
		filepath.Join(dir, "chapter-10.json"),
	}, files)
}

func TestFindChapterFilesEmptyDir(t *testing.T) {
	s, err := NewChapterScanner("")
	require.NoError(t, err)

	files, err := s.FindChapterFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindChapterFilesMissingDir(t *testing.T) {
	s, err := NewChapterScanner("")
	require.NoError(t, err)

	_, err = s.FindChapterFiles(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestCustomPattern(t *testing.T) {
	s, err := NewChapterScanner("{prologue,chapter-*}.json")
	require.NoError(t, err)

	assert.True(t, s.Match("prologue.json"))
	assert.True(t, s.Match("chapter-7.json"))
	assert.False(t, s.Match("epilogue.json"))
}
