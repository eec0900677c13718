// Package errors provides error handling utilities for the dbbak application.
//
// This package implements the sentinel errors and typed errors used across
// dbbak, together with thin wrappers over the standard errors package so
// callers only need a single import.
//
// # Features
//
//   - Sentinel errors for errors.Is checks (ErrAlreadyRunning, ErrLogUnwritable, ...)
//   - Typed errors carrying context (LockError, LogError, ConfigError)
//   - Error wrapping with context
//
// # Usage
//
// Basic error wrapping:
//
//	if err != nil {
//	    return errors.Wrap(err, "failed to open lock file")
//	}
//
// Checking why a lock could not be acquired:
//
//	if errors.Is(err, errors.ErrAlreadyRunning) {
//	    // another instance holds the lock
//	}
//
// # Fatal vs. Diagnostic
//
// Only three conditions are fatal to dbbak and surface as errors: a malformed
// command line (ConfigError wrapping ErrInvalidFlag), an unwritable log
// destination (LogError wrapping ErrLogUnwritable) and a lock that is already
// held (LockError wrapping ErrAlreadyRunning or ErrLockIO). Everything else is
// logged and swallowed by the component that observed it.
//
// # Thread Safety
//
// All types and functions in this package are safe for concurrent use
// by multiple goroutines.
package errors
