// Package lock provides file-based locking for the dbbak application.
//
// This package guarantees that at most one dbbak instance runs per lock file
// on a host, whether it was started by cron, a service manager or by hand.
// Exclusion comes from a non-blocking advisory flock(2) on the lock file; the
// process ID written into the file is only used for diagnostics and for
// deciding whether this process may delete the file on exit.
//
// # Core Components
//
// - Locker: Owns one lock file and the OS lock held on it
// - InspectResult, State: What Inspect found in an existing lock file
//
// # Usage
//
//	locker, err := lock.New("/run/dbbak/dbbak.lock", log)
//	if err != nil {
//	    // unsupported platform or unresolvable path
//	}
//
//	if err := locker.Acquire(); err != nil {
//	    // errors.Is(err, errors.ErrAlreadyRunning): another instance holds it
//	    // errors.Is(err, errors.ErrLockIO): directory or file could not be created
//	}
//	defer locker.Release()
//
// # Lock Lifecycle
//
//	UNLOCKED -> ACQUIRING -> LOCKED -> RELEASING -> UNLOCKED
//
// Acquire never waits and never retries; schedulers apply their own cadence.
// When the lock is busy, Inspect reports whether the recorded holder is alive
// or whether the lock is stale (the file outlived its process). A stale file
// is only reported, never removed: the OS lock is already free, so the next
// Acquire succeeds and overwrites the PID.
//
// # Cleanup
//
// Release unlocks and closes the handle, then calls Cleanup, which deletes the
// file only if its content still equals the PID captured when the Locker was
// created. A slow-exiting previous owner therefore cannot delete a file that
// a newer process has already rewritten. Release and Cleanup never fail.
//
// # Thread Safety
//
// Acquire, Release and Acquired share a mutex, so a Release from another
// goroutine either waits for an in-flight Acquire or sees its outcome.
//
// # System Requirements
//
// Unix-like systems only. The lock directory is created if missing.
package lock
