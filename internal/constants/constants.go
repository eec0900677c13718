package constants

// ToolName prefixes log file names and the default lock file.
const ToolName = "dbbak"

// Tagline is printed under the banner on interactive runs.
const Tagline = "Single-instance supervision for MariaDB backups"

// Logo is the startup banner. Each line is emitted through the logger at INFO.
const Logo = `     _ _     _           _
  __| | |__ | |__   __ _| | __
 / _` + "`" + ` | '_ \| '_ \ / _` + "`" + ` | |/ /
| (_| | |_) | |_) | (_| |   <
 \__,_|_.__/|_.__/ \__,_|_|\_\`

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1

	// ExitSignalBase is added to the signal number when dbbak is terminated externally.
	ExitSignalBase = 128
)
