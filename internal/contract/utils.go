package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Movement label constants.
const (
	NewValue  = "new"
	SameValue = "="
)

// Color variables for console output.
var (
	UpColor   = color.New(color.FgGreen, color.Bold) // UpColor marks an item that climbed.
	DownColor = color.New(color.FgRed)               // DownColor marks an item that dropped.
	NewColor  = color.New(color.FgCyan, color.Bold)  // NewColor marks an item that just entered.
	SameColor = color.New(color.FgHiBlack)
)

// GetPlainMovement returns a plain text label describing a rank change.
// prev is 0 when the item was absent before. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainMovement(prev, cur int) string {
	switch {
	case prev == 0:
		return NewValue
	case cur < prev:
		return fmt.Sprintf("▲%d", prev-cur)
	case cur > prev:
		return fmt.Sprintf("▼%d", cur-prev)
	default:
		return SameValue
	}
}

// GetColorMovement returns a colored movement label for console output (table).
func GetColorMovement(prev, cur int) string {
	text := GetPlainMovement(prev, cur)

	switch {
	case prev == 0:
		return NewColor.Sprint(text)
	case cur < prev:
		return UpColor.Sprint(text)
	case cur > prev:
		return DownColor.Sprint(text)
	default:
		return SameColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for metadata caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".thelist_cache.db"
	}
	return filepath.Join(homeDir, ".thelist_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".thelist_runs.db"
	}
	return filepath.Join(homeDir, ".thelist_runs.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
