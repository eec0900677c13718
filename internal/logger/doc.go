// Package logger provides logging facilities for the dbbak application.
//
// Every record is formatted as a single line and appended to a log file that
// is fixed for the lifetime of the process. When dbbak runs interactively
// (stdin, stdout and stderr all attached to a terminal) a colorized copy of
// each record is also printed. Under cron or a service manager the terminal
// copy is suppressed entirely, so no ANSI sequences reach redirected output.
//
// # Core Components
//
// - Logger: The interface used by the application (common.Logger plus the file lifecycle)
// - DefaultLogger: Implementation backed by a log/slog handler
// - DetectInteractive: The three-stream terminal check
//
// # Log Levels
//
//   - ERROR: red on the terminal, written to stderr
//   - WARN: yellow
//   - INFO: green
//   - VERBOSE: blue; dropped from both destinations unless verbose mode is on
//
// # Line Format
//
// Log file:
//
//	[2024-05-01 02:00:00] [4242] [INFO] backup lock acquired
//
// Terminal (no PID):
//
//	[2024-05-01 02:00:00] [INFO] backup lock acquired
//
// # Usage
//
//	log := logger.New(logger.Options{
//	    Verbose:     cfg.Verbose,
//	    Interactive: logger.DetectInteractive(),
//	})
//	if err := log.Initialize(cfg.LogDir); err != nil {
//	    // fatal: there is no in-memory fallback
//	}
//	log.Info("starting")
//
// # Durability
//
// The log file is opened, appended to and closed for each record. There is
// no buffering, so Close has nothing to flush. A record that cannot be written
// is dropped silently; logging never fails the program.
//
// # Thread Safety
//
// DefaultLogger serializes records with a mutex, so the signal watcher and
// the main flow may log concurrently. Records pass through an slog.Logger
// built around the package's line handler.
package logger
