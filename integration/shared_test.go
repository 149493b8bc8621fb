//go:build basic || database

// Package integration runs the thelist binary end to end.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedListPath holds the path to a shared thelist binary built once for all tests.
	sharedListPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// sampleEvents has three dated episodes:
// [hades celeste tunic], [tunic hades], [tunic celeste hades].
const sampleEvents = `episode,item,op,position,date
1,hades,insert,1,2024-01-01
1,celeste,insert,2,
1,tunic,insert,3,
2,tunic,move,1,2024-01-08
2,celeste,remove,,
3,celeste,insert,2,2024-01-15
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getListBinary returns the path to the thelist binary, building it once if needed.
func getListBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "thelist-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		listPath := filepath.Join(tempDir, "thelist")
		buildCmd := exec.Command("go", "build", "-o", listPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build thelist: %v\n%s", err, out))
		}

		sharedListPath = listPath
	})

	return sharedListPath
}

// workspace creates a directory holding the sample event file and returns it.
// HOME points into it so default SQLite files never touch the real home directory.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.csv"), []byte(sampleEvents), 0o644))
	t.Setenv("HOME", dir)
	return dir
}

// runList runs the binary in dir and returns its standard output.
// Standard error carries the run header and is only logged on failure.
func runList(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getListBinary(), args...)
	cmd.Dir = dir
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), out, stderr.String())
		return string(out), err
	}
	return string(out), nil
}
