package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 1", 1, 0.6666, "0.7"},
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 3", 3, 0.5, "0.500"},
		{"negative value", 2, -42.567, "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"item": "1942", "rank": 1}))
	assert.Equal(t, "{\n  \"item\": \"1942\",\n  \"rank\": 1\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeJSON(&buf, []string{"a", "b"}))
	assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", buf.String())
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	assert.ErrorContains(t, err, "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:     "simple csv",
			header:   []string{"rank", "item"},
			rows:     [][]string{{"1", "Hades"}, {"2", "Celeste"}},
			expected: "rank,item\n1,Hades\n2,Celeste\n",
		},
		{
			name:     "empty rows",
			header:   []string{"col1", "col2"},
			expected: "col1,col2\n",
		},
		{
			name:     "values with commas",
			header:   []string{"item"},
			rows:     [][]string{{"Papers, Please"}},
			expected: "item\n\"Papers, Please\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Test message")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		err := writeWithFile(path, func(w io.Writer) error {
			return writeJSON(w, map[string]int{"episodes": 3})
		}, "Wrote JSON")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var got map[string]int
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, 3, got["episodes"])
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Test message")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Test message")
		assert.Error(t, err)
	})
}

func TestMovementLabel(t *testing.T) {
	cfg := &contract.Config{UseColors: false}
	assert.Equal(t, "new", movementLabel(cfg, 0, 3))
	assert.Equal(t, "▲2", movementLabel(cfg, 4, 2))
	assert.Equal(t, "▼1", movementLabel(cfg, 1, 2))
	assert.Equal(t, "=", movementLabel(cfg, 5, 5))

	colored := movementLabel(&contract.Config{UseColors: true}, 4, 2)
	assert.Contains(t, colored, "▲2")
}

func TestFormatHelpers(t *testing.T) {
	assert.Empty(t, formatDate(time.Time{}))
	assert.Equal(t, "2021-03-04", formatDate(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, "-", formatRank(0))
	assert.Equal(t, "7", formatRank(7))

	assert.Equal(t, 0, tailStart(5, 0))
	assert.Equal(t, 0, tailStart(5, 10))
	assert.Equal(t, 3, tailStart(5, 2))
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	table := newTable(&buf, []string{"Rank", "Item"})
	require.NoError(t, renderTable(table, [][]string{{"1", "Outer Wilds"}}))

	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "OUTER WILDS")
}
