package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bonuspoints/thelist/schema"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainMovement(t *testing.T) {
	tests := []struct {
		name     string
		prev     int
		cur      int
		expected string
	}{
		{"entered", 0, 3, NewValue},
		{"climbed", 5, 2, "▲3"},
		{"dropped", 1, 4, "▼3"},
		{"unchanged", 2, 2, SameValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainMovement(tt.prev, tt.cur))
		})
	}
}

func TestGetColorMovement(t *testing.T) {
	original := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = original })

	label := GetColorMovement(4, 1)
	assert.Contains(t, label, "▲3")
	assert.NotEqual(t, "▲3", label, "label should carry color codes")
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".thelist_cache.db"))
	assert.True(t, strings.HasSuffix(GetRunsDBFilePath(), ".thelist_runs.db"))
	assert.NotEqual(t, GetCacheDBFilePath(), GetRunsDBFilePath())
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Hollow Knight", TruncateName("Hollow Knight", 20))
	assert.Equal(t, "The Legend...", TruncateName("The Legend of Zelda", 13))
	assert.Equal(t, "abcdef", TruncateName("abcdef", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}

func TestLogRunHeader(t *testing.T) {
	var buf bytes.Buffer
	original := headerWriter
	headerWriter = &buf
	t.Cleanup(func() { headerWriter = original })

	LogRunHeader(&Config{
		InputPath:   "/data/thelist.csv",
		InputFormat: schema.CSVInput,
		Layout:      schema.StableLayout,
		Offline:     true,
		Workers:     2,
	}, "series")

	out := buf.String()
	assert.Contains(t, out, "thelist.csv (csv, series)")
	assert.Contains(t, out, "stable, metadata: offline, workers: 2")
}
