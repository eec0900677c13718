package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bashhack/dbbak/internal/config"
)

// MockBackuper implements the Backuper interface for testing
type MockBackuper struct {
	RunCalled bool
	RunErr    error
}

func (m *MockBackuper) Run(ctx context.Context) error {
	m.RunCalled = true
	return m.RunErr
}

// MockLocker implements the Locker interface for testing
type MockLocker struct {
	AcquireErr    error
	ReleaseErr    error
	AcquireCalled bool
	ReleaseCalled bool
	ReleaseCount  int
}

func (m *MockLocker) Acquire() error {
	m.AcquireCalled = true
	return m.AcquireErr
}

func (m *MockLocker) Release() error {
	m.ReleaseCalled = true
	m.ReleaseCount++
	return m.ReleaseErr
}

// MockLogger implements logger.Logger for testing
type MockLogger struct {
	mu sync.Mutex

	InitializeErr    error
	CloseErr         error
	InitializeCalled bool
	CloseCalled      bool
	IsInteractive    bool
	LogPath          string

	Messages []string
}

func (m *MockLogger) record(level, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, level+" "+fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record("ERROR", format, args...)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record("WARN", format, args...)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record("INFO", format, args...)
}

func (m *MockLogger) Verbose(format string, args ...interface{}) {
	m.record("VERBOSE", format, args...)
}

func (m *MockLogger) Initialize(dir string) error {
	m.InitializeCalled = true
	if m.InitializeErr != nil {
		return m.InitializeErr
	}
	m.LogPath = dir + "/mock.log"
	return nil
}

func (m *MockLogger) Path() string {
	return m.LogPath
}

func (m *MockLogger) Interactive() bool {
	return m.IsInteractive
}

func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return m.CloseErr
}

// HasMessage reports whether any recorded message starts with level and contains substr
func (m *MockLogger) HasMessage(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Messages {
		if strings.HasPrefix(msg, level+" ") && strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// NewTestApp creates a new App with default test settings
func NewTestApp() *App {
	app := NewApp(AppOptions{
		Config:        config.New(),
		Exit:          func(int) {},
		IsInteractive: func() bool { return false },
	})
	return app
}

// WithMockLocker adds a mock locker to the app
func WithMockLocker(app *App, mockLocker *MockLocker) *App {
	app.Locker = mockLocker
	return app
}

// WithMockLogger adds a mock logger to the app
func WithMockLogger(app *App, mockLogger *MockLogger) *App {
	app.Logger = mockLogger
	return app
}

// WithMockBackuper adds a mock backuper to the app
func WithMockBackuper(app *App, mockBackuper *MockBackuper) *App {
	app.Backuper = mockBackuper
	return app
}
