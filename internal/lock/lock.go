package lock

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/bashhack/dbbak/internal/common"
	"github.com/bashhack/dbbak/internal/constants"
	dbbakErrors "github.com/bashhack/dbbak/internal/errors"
)

// State describes what Inspect found in an existing lock file
type State int

const (
	// StateUnknown means the lock file could not be read
	StateUnknown State = iota
	// StateInvalid means the first line is not a positive decimal PID
	StateInvalid
	// StateActive means the recorded process is alive
	StateActive
	// StateStale means the recorded process no longer exists
	StateStale
)

func (s State) String() string {
	switch s {
	case StateInvalid:
		return "invalid"
	case StateActive:
		return "active"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// InspectResult is the outcome of a diagnostic look at the lock file
type InspectResult struct {
	State State
	PID   int
}

// Locker prevents concurrent dbbak instances using an advisory file lock.
// The OS lock is authoritative; the PID written into the file is diagnostic.
// Acquire and Release may be called from different goroutines.
type Locker struct {
	mu       sync.Mutex
	lockFile string
	flock    *flock.Flock
	pid      int
	acquired bool
	logger   common.Logger
}

// DefaultPath returns the lock file used when none is configured
func DefaultPath() string {
	return filepath.Join(os.TempDir(), constants.ToolName+".lock")
}

// New creates a Locker for path. The owner PID is captured here and used
// later by Cleanup, so the comparison key never changes during the run.
func New(path string, logger common.Logger) (*Locker, error) {
	if runtime.GOOS == "windows" {
		return nil, dbbakErrors.NewLockError(path, 0,
			dbbakErrors.Wrap(dbbakErrors.ErrLockAcquisitionFailure,
				"dbbak currently only supports Unix-like operating systems"))
	}

	if path == "" {
		path = DefaultPath()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, dbbakErrors.NewLockError(path, 0,
			dbbakErrors.Wrap(err, "failed to resolve lock file path"))
	}

	if logger == nil {
		logger = common.NopLogger{}
	}

	return &Locker{
		lockFile: absPath,
		pid:      os.Getpid(),
		logger:   logger,
	}, nil
}

// Path returns the absolute lock file path
func (l *Locker) Path() string {
	return l.lockFile
}

// PID returns the owner PID recorded at construction
func (l *Locker) PID() int {
	return l.pid
}

// Acquired reports whether this Locker currently holds the lock
func (l *Locker) Acquired() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired
}

// Acquire takes the lock without blocking. If another process holds it the
// holder is inspected for diagnostics and ErrAlreadyRunning is returned.
// There is no retry.
func (l *Locker) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.acquired {
		return nil
	}

	dir := filepath.Dir(l.lockFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dbbakErrors.NewLockError(l.lockFile, 0,
			dbbakErrors.Errorf("%w: failed to create lock directory %s: %w", dbbakErrors.ErrLockIO, dir, err))
	}

	fl := flock.New(l.lockFile)

	locked, err := fl.TryLock()
	if err != nil {
		_ = fl.Close()
		return dbbakErrors.NewLockError(l.lockFile, 0,
			dbbakErrors.Errorf("%w: failed to open lock file: %w", dbbakErrors.ErrLockIO, err))
	}

	if !locked {
		_ = fl.Close()
		result := l.Inspect()
		return dbbakErrors.NewLockError(l.lockFile, result.PID, dbbakErrors.ErrAlreadyRunning)
	}

	if err := l.writePid(); err != nil {
		_ = fl.Unlock()
		return dbbakErrors.NewLockError(l.lockFile, l.pid,
			dbbakErrors.Errorf("%w: failed to write PID to lock file: %w", dbbakErrors.ErrLockIO, err))
	}

	l.flock = fl
	l.acquired = true
	l.logger.Verbose("Acquired lock %s (PID %d)", l.lockFile, l.pid)
	return nil
}

// writePid replaces the file content with the owner PID
func (l *Locker) writePid() error {
	return os.WriteFile(l.lockFile, []byte(strconv.Itoa(l.pid)), 0o644)
}

// Inspect reads the PID recorded in the lock file and reports whether that
// process is still alive. It only logs; the file is never modified.
func (l *Locker) Inspect() InspectResult {
	line, err := readFirstLine(l.lockFile)
	if err != nil {
		l.logger.Verbose("Could not read lock file %s: %v", l.lockFile, err)
		return InspectResult{State: StateUnknown}
	}

	if !isDigits(line) {
		l.logger.Warning("Lock file %s has invalid content %q", l.lockFile, line)
		return InspectResult{State: StateInvalid}
	}

	pid, err := strconv.Atoi(line)
	if err != nil || pid <= 0 {
		l.logger.Warning("Lock file %s has invalid content %q", l.lockFile, line)
		return InspectResult{State: StateInvalid}
	}

	if isProcessRunning(pid) {
		l.logger.Info("Another dbbak instance (PID %d) is running and holds %s", pid, l.lockFile)
		return InspectResult{State: StateActive, PID: pid}
	}

	l.logger.Warning("Stale lock detected: %s records PID %d, which is no longer running", l.lockFile, pid)
	return InspectResult{State: StateStale, PID: pid}
}

// Release drops the OS lock and closes the handle, then runs Cleanup.
// It is safe to call any number of times and never fails; problems are
// logged at verbose level.
func (l *Locker) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owned := l.acquired

	if l.flock != nil {
		// Unlock also closes the underlying descriptor.
		if err := l.flock.Unlock(); err != nil {
			l.logger.Verbose("Failed to release lock on %s: %v", l.lockFile, err)
		}
		l.flock = nil
	}
	l.acquired = false

	if owned {
		l.Cleanup()
	}
	return nil
}

// Cleanup removes the lock file only if it still records this Locker's PID.
// It reports whether the file was removed. Errors are swallowed.
func (l *Locker) Cleanup() bool {
	line, err := readFirstLine(l.lockFile)
	if err != nil {
		l.logger.Verbose("Skipping lock cleanup, cannot read %s: %v", l.lockFile, err)
		return false
	}

	if line != strconv.Itoa(l.pid) {
		l.logger.Verbose("Leaving lock file %s in place, it belongs to PID %q", l.lockFile, line)
		return false
	}

	if err := os.Remove(l.lockFile); err != nil {
		l.logger.Verbose("Failed to remove lock file %s: %v", l.lockFile, err)
		return false
	}

	l.logger.Verbose("Removed lock file %s", l.lockFile)
	return true
}

// readFirstLine returns the first line of path with surrounding whitespace removed
func readFirstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
