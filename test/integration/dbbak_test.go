//go:build integration
// +build integration

package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/dbbak/internal/common"
	"github.com/bashhack/dbbak/internal/lock"
)

func skipUnlessEnabled(t *testing.T) {
	t.Helper()
	if os.Getenv("DBBAK_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test; set DBBAK_INTEGRATION_TESTS=1 to run")
	}
}

func buildDbbak(t *testing.T) string {
	t.Helper()

	bin := filepath.Join(t.TempDir(), "dbbak")
	buildCmd := exec.Command("go", "build", "-o", bin, "../../cmd/dbbak")
	out, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "failed to build dbbak: %s", out)
	return bin
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runDbbak(t *testing.T, bin string, args ...string) runResult {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "DBBAK_CONFIG=", "DBBAK_LOG_DIR=", "DBBAK_LOCK_FILE=", "DBBAK_VERBOSE=")

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}

	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func readSingleLog(t *testing.T, dir string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "dbbak_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(content)
}

// TestSingleInstance holds the lock from the test process while the binary
// runs, then releases it and runs the binary again.
func TestSingleInstance(t *testing.T) {
	skipUnlessEnabled(t)

	bin := buildDbbak(t)
	lockFile := filepath.Join(t.TempDir(), "t.lock")

	holder, err := lock.New(lockFile, common.NopLogger{})
	require.NoError(t, err)
	require.NoError(t, holder.Acquire())

	blockedLogs := filepath.Join(t.TempDir(), "blocked")
	blocked := runDbbak(t, bin, "-l", blockedLogs, "--lock-file", lockFile)

	assert.Equal(t, 1, blocked.code)
	content := readSingleLog(t, blockedLogs)
	assert.Contains(t, content, "[INFO] Another dbbak instance (PID "+strconv.Itoa(os.Getpid())+") is running")
	assert.Contains(t, content, "[ERROR]")
	assert.Contains(t, content, "already running")

	recorded, err := os.ReadFile(lockFile)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(recorded), "a blocked run must not touch the holder's file")

	require.NoError(t, holder.Release())
	_, err = os.Stat(lockFile)
	require.True(t, os.IsNotExist(err))

	okLogs := filepath.Join(t.TempDir(), "ok")
	ok := runDbbak(t, bin, "-l", okLogs, "--lock-file", lockFile)

	assert.Equal(t, 0, ok.code, "stderr: %s", ok.stderr)
	assert.Contains(t, readSingleLog(t, okLogs), "[INFO] Lock acquired: "+lockFile)

	_, err = os.Stat(lockFile)
	assert.True(t, os.IsNotExist(err), "a clean exit removes the lock file")
}

// TestLogDirectoryCreation starts the binary with a missing log directory
// and redirected streams.
func TestLogDirectoryCreation(t *testing.T) {
	skipUnlessEnabled(t)

	bin := buildDbbak(t)
	logDir := filepath.Join(t.TempDir(), "does", "not", "exist")

	res := runDbbak(t, bin, "-v", "-l", logDir, "--lock-file", filepath.Join(t.TempDir(), "t.lock"))
	require.Equal(t, 0, res.code, "stderr: %s", res.stderr)

	content := readSingleLog(t, logDir)
	assert.NotContains(t, content, "\033[")
	assert.Contains(t, content, "[VERBOSE] Acquired lock")

	// Redirected streams are not terminals: nothing is echoed.
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestUsageErrors(t *testing.T) {
	skipUnlessEnabled(t)

	bin := buildDbbak(t)

	tests := map[string]struct {
		args         []string
		expectedCode int
		stdoutMatch  string
		stderrMatch  string
	}{
		"Help":          {args: []string{"--help"}, expectedCode: 0, stdoutMatch: "Usage:"},
		"Version":       {args: []string{"--version"}, expectedCode: 0, stdoutMatch: "dbbak dev"},
		"UnknownFlag":   {args: []string{"--bogus"}, expectedCode: 1, stderrMatch: "unknown flag"},
		"MissingLogDir": {args: []string{"-l"}, expectedCode: 1, stderrMatch: "flag needs an argument"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			res := runDbbak(t, bin, test.args...)

			assert.Equal(t, test.expectedCode, res.code)
			if test.stdoutMatch != "" {
				assert.Contains(t, res.stdout, test.stdoutMatch)
			}
			if test.stderrMatch != "" {
				assert.Contains(t, res.stderr, test.stderrMatch)
			}
		})
	}
}

func TestUnwritableLogDirectory(t *testing.T) {
	skipUnlessEnabled(t)

	bin := buildDbbak(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	lockFile := filepath.Join(t.TempDir(), "t.lock")

	res := runDbbak(t, bin, "-l", filepath.Join(blocker, "logs"), "--lock-file", lockFile)

	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "log destination is not writable")

	_, err := os.Stat(lockFile)
	assert.True(t, os.IsNotExist(err))
}
