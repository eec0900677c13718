// Package config provides configuration handling for the dbbak application.
//
// This package replaces ad-hoc global settings with a single Config value
// that is built once at startup and handed to the logger and the lock
// manager. It parses command-line flags, an optional YAML file and
// environment variables, and validates the result.
//
// # Configuration Sources
//
// Configuration values are loaded with the following precedence:
//
// 1. Command-line flags (highest priority, only when given explicitly)
// 2. Environment variables
// 3. YAML config file (-c/--config or DBBAK_CONFIG)
// 4. Default values (lowest priority)
//
// # Environment Variables
//
//	DBBAK_CONFIG      YAML config file
//	DBBAK_LOG_DIR     Log directory (default: $XDG_STATE_HOME/dbbak/logs)
//	DBBAK_LOCK_FILE   Lock file (default: $TMPDIR/dbbak.lock)
//	DBBAK_VERBOSE     Enable verbose logging (true/false)
//
// # Config File
//
//	log_dir: /var/log/dbbak
//	lock_file: /run/dbbak/dbbak.lock
//	verbose: true
//
// # Command-line Flags
//
//	-h, --help          Print usage and exit 0
//	-v, --verbose       Enable verbose logging
//	-l, --log-dir DIR   Log directory
//	--lock-file FILE    Lock file
//	-c, --config FILE   YAML config file
//	--version           Print version information and exit
//
// A missing flag value or an unknown flag prints the error and usage to
// stderr and returns a ConfigError wrapping errors.ErrInvalidFlag; the
// caller exits with status 1.
//
// # Usage
//
//	cfg := config.New()
//	if err := cfg.ParseFlags(os.Args[1:], os.Stdout, os.Stderr); err != nil {
//	    os.Exit(1)
//	}
//	if cfg.ShowHelp {
//	    os.Exit(0)
//	}
//	if err := cfg.Finalize(); err != nil {
//	    // Handle error
//	}
//
// # Thread Safety
//
// The Config type is not designed to be thread-safe. Configuration is loaded
// at startup and then used in a read-only fashion by the application.
package config
