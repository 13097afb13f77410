//go:build integration || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedCovtreePath holds the path to a shared covtree binary built once for all tests.
	sharedCovtreePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getCovtreeBinary returns the path to the covtree binary, building it once if needed.
func getCovtreeBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "covtree-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		covtreePath := filepath.Join(tempDir, "covtree")
		buildCmd := exec.Command("go", "build", "-o", covtreePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build covtree: %v", err))
		}

		sharedCovtreePath = covtreePath
	})

	return sharedCovtreePath
}

// runCovtreeCommand runs covtree from the project root and returns its stdout.
func runCovtreeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getCovtreeBinary(), args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = exitErr.Stderr
		}
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), string(output), string(stderr))
		return string(output), err
	}
	return string(output), nil
}
