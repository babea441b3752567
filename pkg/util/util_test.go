package util

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestDecodeText(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(`{"contentZh":["简体"]}`))
	require.NoError(t, err)

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{name: "plain utf-8", in: []byte(`{"a":"中文"}`), want: `{"a":"中文"}`},
		{name: "utf-8 with BOM", in: append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a":"中文"}`)...), want: `{"a":"中文"}`},
		{name: "gbk", in: gbk, want: `{"contentZh":["简体"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DecodeText(tt.in, "chapter-01.json")
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestDecodeTextRejectsCorruptInput(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{name: "utf-8 with stray byte", in: []byte("{\"title\":\"第一章\xff\",\"contentZh\":[\"这是简体\"]}")},
		{name: "utf-8 with BOM and stray byte", in: append([]byte{0xEF, 0xBB, 0xBF}, []byte("{\"a\":\"中\xff\"}")...)},
		{name: "not gbk either", in: []byte("{\"a\":\"\xff\xff\"}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, utf8.Valid(tt.in))
			_, err := DecodeText(tt.in, "chapter-01.json")
			assert.ErrorIs(t, err, ErrInvalidEncoding)
		})
	}
}

func TestWriteFileAtomicKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chapter-01.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	require.NoError(t, WriteFileAtomic(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomicNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")
	require.NoError(t, WriteFileAtomic(path, []byte("{}")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestIsDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, IsDirectory(dir))
	assert.False(t, IsDirectory(file))
	assert.False(t, IsDirectory(filepath.Join(dir, "missing")))
}
