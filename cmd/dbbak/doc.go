// Package main implements dbbak, a single-instance supervisor for database backups
//
// dbbak is meant to be started by cron, a systemd timer or by hand. Each run
// takes an exclusive lock, writes a fresh log file and then hands control to
// the backup workflow. A second run started while the first one still holds
// the lock exits immediately with status 1.
//
// # Basic Usage
//
//	dbbak                            # Run with default settings
//	dbbak -v                         # Verbose logging
//	dbbak -l /var/log/dbbak          # Custom log directory
//	dbbak --lock-file /run/dbbak.lock
//	dbbak -c /etc/dbbak.yaml         # Load settings from a YAML file
//
// # Configuration Options
//
// Settings are layered: built-in defaults, then the YAML file, then the
// environment, then command-line flags.
//
//	-v, --verbose      Verbose logging (env: DBBAK_VERBOSE)
//	-l, --log-dir      Log directory (env: DBBAK_LOG_DIR)
//	--lock-file        Lock file path (env: DBBAK_LOCK_FILE)
//	-c, --config       YAML config file (env: DBBAK_CONFIG)
//	--version          Print version information and exit
//	-h, --help         Print usage and exit
//
// # Lifecycle
//
//  1. Flags are parsed. Usage errors exit with status 1.
//  2. The log directory and log file are created. Failure exits with status 1.
//  3. SIGINT, SIGTERM and SIGHUP handlers are installed.
//  4. The lock is acquired without waiting. A held lock exits with status 1.
//  5. The banner is printed when stdin, stdout and stderr are all terminals.
//  6. The backup workflow runs.
//  7. The lock is released and its file removed if it still names this process.
//
// Step 7 runs exactly once whether the run ends normally, with an error, or
// on a signal. A signal ends the process with status 128 plus the signal number.
package main
