package logger

import (
	"os"

	"golang.org/x/term"
)

// DetectInteractive reports whether stdin, stdout and stderr are all
// attached to a terminal. A single redirected stream disables color and
// banner output.
func DetectInteractive() bool {
	return allTerminals(term.IsTerminal, os.Stdin, os.Stdout, os.Stderr)
}

func allTerminals(isTerminal func(fd int) bool, files ...*os.File) bool {
	for _, f := range files {
		if f == nil || !isTerminal(int(f.Fd())) {
			return false
		}
	}
	return true
}
