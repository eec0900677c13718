// Package constants provides application-wide constant values for the dbbak application.
//
// This package centralizes values that are used throughout the application:
// the tool name that prefixes log and lock files, the startup banner, and the
// process exit codes.
//
// # Core Components
//
// - ToolName: "dbbak", used in <log-dir>/dbbak_<YYYYMMDD_HHMMSS>.log and <tmp>/dbbak.lock
// - Logo, Tagline: the banner shown on interactive runs
// - ExitOK, ExitFailure, ExitSignalBase: process exit codes
//
// # Usage
//
//	import "github.com/bashhack/dbbak/internal/constants"
//
//	func logFileName(stamp string) string {
//	    return constants.ToolName + "_" + stamp + ".log"
//	}
package constants
