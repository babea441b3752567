package converter

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCCConverterWithDefaultTable(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	base, err := NewOpenCCConverter(DefaultConversion, logger)
	if err != nil {
		require.True(t, errors.Is(err, ErrConverterUnavailable))
		t.Skipf("OpenCC dictionaries not installed: %v", err)
	}

	c := New(base, DefaultTable())
	out, err := c.ConvertText("悉尼歌剧院")
	require.NoError(t, err)
	assert.Equal(t, "雪梨歌劇院", out)
}

func TestOpenCCConverterUnknownConversion(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	_, err := NewOpenCCConverter("no-such-conversion", logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConverterUnavailable))
}
