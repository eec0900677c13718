package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bashhack/dbbak/internal/common"
	"github.com/bashhack/dbbak/internal/constants"
	dbbakErrors "github.com/bashhack/dbbak/internal/errors"
)

const (
	// TimestampLayout is the one-second precision wall clock used on every record.
	TimestampLayout = "2006-01-02 15:04:05"

	// FileStampLayout is the timestamp embedded in the log file name.
	FileStampLayout = "20060102_150405"
)

// LevelVerbose sits below slog.LevelInfo and is only enabled in verbose mode.
const LevelVerbose = slog.LevelDebug

// Logger defines the logging interface used throughout the application.
// It extends common.Logger with the lifecycle of the log file.
type Logger interface {
	common.Logger

	// Initialize creates dir if needed, fixes the log file path and checks
	// that the file can be written. A returned error is fatal for dbbak.
	Initialize(dir string) error

	// Path returns the log file path, or "" before Initialize.
	Path() string

	// Interactive reports whether terminal output is enabled.
	Interactive() bool

	// Close releases resources held by the logger.
	Close() error
}

// Options configures a DefaultLogger. Zero values select the process defaults.
type Options struct {
	Verbose     bool
	Interactive bool
	Stdout      io.Writer
	Stderr      io.Writer
	PID         int
	Now         func() time.Time
}

// DefaultLogger writes every record to the log file and, when interactive,
// a colorized copy to the terminal. Nothing is buffered.
type DefaultLogger struct {
	mu          sync.Mutex
	logger      *slog.Logger
	dir         string
	logFile     string
	verbose     bool
	interactive bool
	pid         int
	stdout      io.Writer
	stderr      io.Writer
	now         func() time.Time
}

// New creates a DefaultLogger. Until Initialize is called records only reach
// the terminal (when interactive).
func New(opts Options) *DefaultLogger {
	l := &DefaultLogger{
		verbose:     opts.Verbose,
		interactive: opts.Interactive,
		pid:         opts.PID,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		now:         opts.Now,
	}

	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.pid == 0 {
		l.pid = os.Getpid()
	}
	if l.now == nil {
		l.now = time.Now
	}

	l.logger = slog.New(&lineHandler{l: l})
	return l
}

// Initialize prepares dir as the log destination
func (l *DefaultLogger) Initialize(dir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dbbakErrors.NewLogError(dir, dbbakErrors.Errorf("%w: %w", dbbakErrors.ErrLogUnwritable, err))
	}

	logFile := filepath.Join(dir, fmt.Sprintf("%s_%s.log", constants.ToolName, l.now().Format(FileStampLayout)))

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return dbbakErrors.NewLogError(logFile, dbbakErrors.Errorf("%w: %w", dbbakErrors.ErrLogUnwritable, err))
	}
	_ = f.Close()

	l.dir = dir
	l.logFile = logFile
	return nil
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.emit(slog.LevelError, format, args...)
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.emit(slog.LevelWarn, format, args...)
}

// Info logs an informational message
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.emit(slog.LevelInfo, format, args...)
}

// Verbose logs a message only when verbose mode is on; otherwise it is dropped
// before reaching either destination.
func (l *DefaultLogger) Verbose(format string, args ...interface{}) {
	l.emit(LevelVerbose, format, args...)
}

func (l *DefaultLogger) emit(level slog.Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	l.logger.Log(ctx, level, msg)
}

// Path returns the log file path
func (l *DefaultLogger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logFile
}

// Dir returns the directory passed to the last successful Initialize
func (l *DefaultLogger) Dir() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dir
}

// Interactive reports whether records are mirrored to the terminal
func (l *DefaultLogger) Interactive() bool {
	return l.interactive
}

// SetVerbose toggles verbose mode.
func (l *DefaultLogger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

// Close is a no-op; the log file is opened and closed on every record.
func (l *DefaultLogger) Close() error {
	return nil
}

// writeFile appends line to the log file. Failures are swallowed.
func (l *DefaultLogger) writeFile(line string) {
	if l.logFile == "" {
		return
	}

	f, err := os.OpenFile(l.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	_, _ = io.WriteString(f, line)
	_ = f.Close()
}

// writeTerminal prints a colorized line. Errors go to stderr.
func (l *DefaultLogger) writeTerminal(level slog.Level, line string) {
	w := l.stdout
	if level >= slog.LevelError {
		w = l.stderr
	}
	_, _ = fmt.Fprintf(w, "%s%s%s\n", levelColor(level), line, colorReset)
}
