package contract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// headerWriter is where run headers go. Headers use stderr so piped output stays parseable.
var headerWriter io.Writer = os.Stderr

// LogRunHeader prints a concise, 2-line header for a run.
func LogRunHeader(cfg *Config, command string) {
	name := filepath.Base(cfg.InputPath)
	if name == "" || name == "." {
		name = DefaultInputPath
	}

	metadata := "catalog"
	if cfg.Offline {
		metadata = "offline"
	}

	// Line 1: what is being read
	_, _ = fmt.Fprintf(headerWriter, "📋 List: %s (%s, %s)\n", name, cfg.InputFormat, command)

	// Line 2: how it is being laid out
	_, _ = fmt.Fprintf(headerWriter, "🧭 Layout: %s, metadata: %s, workers: %d\n", cfg.Layout, metadata, cfg.Workers)
}
