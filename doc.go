// Package dbbak is a single-instance supervisor for database backup runs
//
// dbbak wraps a MariaDB backup job with the plumbing every scheduled job
// needs: it refuses to start while another run holds the lock, reports
// whether a leftover lock belongs to a live or a dead process, and writes
// every message as a timestamped, leveled line to a per-run log file. When
// started from a terminal it also prints a colorized copy of each line.
//
// # Quick Start
//
//	# Run with default paths
//	dbbak
//
//	# Verbose run with a custom log directory
//	dbbak -v -l /var/log/dbbak
//
//	# From cron, with a lock on a shared path
//	*/30 * * * * dbbak --lock-file /run/dbbak/dbbak.lock
//
// # Key Features
//
//   - Single Instance: Non-blocking flock(2) on the lock file, fail fast
//   - Stale Lock Detection: The recorded PID is probed and reported
//   - Safe Cleanup: The lock file is only removed by the process it names
//   - Dual-Mode Logging: Log file always, colored terminal when interactive
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/dbbak: Command-line interface and application lifecycle
//   - internal/config: Defaults, YAML file, environment and flag parsing
//   - internal/lock: File-based locking mechanism
//   - internal/logger: Logging facilities
//   - internal/errors: Error handling utilities
//   - internal/common: Interfaces shared between packages
//   - internal/constants: Banner text and fixed values
//
// # Exit Status
//
//	0    success, -h/--help or --version
//	1    invalid flags, unwritable log directory, lock already held
//	128+ terminated by a signal (130 for SIGINT, 143 for SIGTERM)
package dbbak
