package common

// Logger defines the logging interface shared by dbbak components
type Logger interface {
	// Error logs a failure (file, and red on a terminal)
	Error(format string, args ...interface{})

	// Warning logs a recoverable or diagnostic condition
	Warning(format string, args ...interface{})

	// Info logs an informational message
	Info(format string, args ...interface{})

	// Verbose logs a message that is dropped entirely unless verbose mode is on
	Verbose(format string, args ...interface{})
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Error(string, ...interface{})   {}
func (NopLogger) Warning(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})    {}
func (NopLogger) Verbose(string, ...interface{}) {}
