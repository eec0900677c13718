package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/dbbak/internal/constants"
	dbbakErrors "github.com/bashhack/dbbak/internal/errors"
	"github.com/bashhack/dbbak/internal/lock"
	"github.com/bashhack/dbbak/internal/logger"
)

func TestNewApp_PanicsWithoutConfig(t *testing.T) {
	assert.Panics(t, func() { NewApp(AppOptions{}) })
}

func TestAppInitialize(t *testing.T) {
	tests := map[string]struct {
		setupFunc     func(t *testing.T) *App
		expectErr     error
		validateState func(t *testing.T, app *App)
	}{
		"CreatesDefaults": {
			setupFunc: func(t *testing.T) *App {
				app := NewTestApp()
				app.Config.LogDir = filepath.Join(t.TempDir(), "logs")
				app.Config.LockFile = filepath.Join(t.TempDir(), "dbbak.lock")
				app.Stdout = &bytes.Buffer{}
				app.Stderr = &bytes.Buffer{}
				return app
			},
			validateState: func(t *testing.T, app *App) {
				require.IsType(t, &logger.DefaultLogger{}, app.Logger)
				require.IsType(t, &lock.Locker{}, app.Locker)
				require.IsType(t, &handoff{}, app.Backuper)

				assert.Equal(t, app.Config.LogDir, filepath.Dir(app.Logger.Path()))
				assert.Equal(t, app.Config.LockFile, app.Locker.(*lock.Locker).Path())
				assert.False(t, app.Logger.Interactive())

				_, err := os.Stat(app.Config.LockFile)
				assert.True(t, os.IsNotExist(err), "Initialize must not acquire the lock")
			},
		},
		"KeepsInjectedComponents": {
			setupFunc: func(t *testing.T) *App {
				app := NewTestApp()
				app.Config.LogDir = t.TempDir()
				app = WithMockLogger(app, &MockLogger{})
				app = WithMockLocker(app, &MockLocker{})
				return WithMockBackuper(app, &MockBackuper{})
			},
			validateState: func(t *testing.T, app *App) {
				assert.IsType(t, &MockLocker{}, app.Locker)
				assert.IsType(t, &MockBackuper{}, app.Backuper)
				assert.True(t, app.Logger.(*MockLogger).InitializeCalled)
			},
		},
		"EmptyLockFile": {
			setupFunc: func(t *testing.T) *App {
				app := NewTestApp()
				app.Config.LockFile = ""
				return app
			},
			expectErr: dbbakErrors.ErrInvalidConfiguration,
			validateState: func(t *testing.T, app *App) {
				assert.Nil(t, app.Logger, "no logger is built for an invalid configuration")
			},
		},
		"UnwritableLogDir": {
			setupFunc: func(t *testing.T) *App {
				blocker := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

				app := NewTestApp()
				app.Config.LogDir = filepath.Join(blocker, "logs")
				app.Stdout = &bytes.Buffer{}
				app.Stderr = &bytes.Buffer{}
				return app
			},
			expectErr: dbbakErrors.ErrLogUnwritable,
			validateState: func(t *testing.T, app *App) {
				assert.Nil(t, app.Locker, "locker is not created when logging is unavailable")
			},
		},
		"LoggerInitializeError": {
			setupFunc: func(t *testing.T) *App {
				app := NewTestApp()
				return WithMockLogger(app, &MockLogger{
					InitializeErr: dbbakErrors.NewLogError("/nope", dbbakErrors.ErrLogUnwritable),
				})
			},
			expectErr: dbbakErrors.ErrLogUnwritable,
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			app := test.setupFunc(t)

			err := app.Initialize()

			if test.expectErr != nil {
				require.Error(t, err)
				assert.True(t, dbbakErrors.Is(err, test.expectErr), "unexpected error: %v", err)
			} else {
				require.NoError(t, err)
			}

			if test.validateState != nil {
				test.validateState(t, app)
			}
		})
	}
}

// TestAppRunScenarios tests various scenarios for the Run method
func TestAppRunScenarios(t *testing.T) {
	alreadyRunning := dbbakErrors.NewLockError("/tmp/t.lock", 99, dbbakErrors.ErrAlreadyRunning)

	tests := map[string]struct {
		locker        *MockLocker
		backuper      *MockBackuper
		interactive   bool
		expectErr     error
		validateState func(t *testing.T, mockLogger *MockLogger, locker *MockLocker, backuper *MockBackuper)
	}{
		"Success": {
			locker:   &MockLocker{},
			backuper: &MockBackuper{},
			validateState: func(t *testing.T, mockLogger *MockLogger, locker *MockLocker, backuper *MockBackuper) {
				assert.True(t, locker.AcquireCalled)
				assert.True(t, backuper.RunCalled)
				assert.True(t, mockLogger.HasMessage("INFO", "Lock acquired"))
				assert.False(t, mockLogger.HasMessage("INFO", constants.Tagline), "no banner when not interactive")
			},
		},
		"InteractiveBanner": {
			locker:      &MockLocker{},
			backuper:    &MockBackuper{},
			interactive: true,
			validateState: func(t *testing.T, mockLogger *MockLogger, locker *MockLocker, backuper *MockBackuper) {
				assert.True(t, mockLogger.HasMessage("INFO", constants.Tagline))
				assert.True(t, mockLogger.HasMessage("INFO", `\__,_|`))
			},
		},
		"AlreadyRunning": {
			locker:    &MockLocker{AcquireErr: alreadyRunning},
			backuper:  &MockBackuper{},
			expectErr: dbbakErrors.ErrAlreadyRunning,
			validateState: func(t *testing.T, mockLogger *MockLogger, locker *MockLocker, backuper *MockBackuper) {
				assert.False(t, backuper.RunCalled, "workflow must not start without the lock")
			},
		},
		"LockIOFailure": {
			locker:    &MockLocker{AcquireErr: dbbakErrors.NewLockError("/x", 0, dbbakErrors.ErrLockIO)},
			backuper:  &MockBackuper{},
			expectErr: dbbakErrors.ErrLockIO,
		},
		"OtherAcquireFailure": {
			locker:    &MockLocker{AcquireErr: errors.New("boom")},
			backuper:  &MockBackuper{},
			expectErr: dbbakErrors.ErrLockAcquisitionFailure,
		},
		"WorkflowError": {
			locker:    &MockLocker{},
			backuper:  &MockBackuper{RunErr: dbbakErrors.ErrInvalidConfiguration},
			expectErr: dbbakErrors.ErrInvalidConfiguration,
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			mockLogger := &MockLogger{IsInteractive: test.interactive}
			app := WithMockLogger(NewTestApp(), mockLogger)
			app = WithMockLocker(app, test.locker)
			app = WithMockBackuper(app, test.backuper)

			err := app.Run(context.Background())

			if test.expectErr != nil {
				require.Error(t, err)
				assert.True(t, dbbakErrors.Is(err, test.expectErr), "unexpected error: %v", err)
			} else {
				require.NoError(t, err)
			}

			if test.validateState != nil {
				test.validateState(t, mockLogger, test.locker, test.backuper)
			}
		})
	}
}

func TestHandoff(t *testing.T) {
	mockLogger := &MockLogger{}
	app := NewTestApp()
	h := newHandoff(app.Config, mockLogger)

	require.NoError(t, h.Run(context.Background()))
	assert.True(t, mockLogger.HasMessage("INFO", "Initialization complete"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.Run(ctx), context.Canceled)
}

func TestShowVersion(t *testing.T) {
	var stdout bytes.Buffer
	app := NewTestApp()
	app.Stdout = &stdout
	app.Config.VersionInfo.Version = "1.2.3"
	app.Config.VersionInfo.Commit = "abc1234"
	app.Config.VersionInfo.Date = "2024-05-01"

	app.ShowVersion()

	assert.Equal(t, "dbbak 1.2.3 (abc1234) built on 2024-05-01\n", stdout.String())
}

func TestReportFatal(t *testing.T) {
	t.Run("WithoutLogger", func(t *testing.T) {
		var stderr bytes.Buffer
		app := NewTestApp()
		app.Stderr = &stderr

		app.reportFatal(errors.New("config broken"))

		assert.Equal(t, "dbbak: config broken\n", stderr.String())
	})

	t.Run("WithInitializedLogger", func(t *testing.T) {
		var stderr bytes.Buffer
		mockLogger := &MockLogger{LogPath: "/var/log/dbbak/dbbak_x.log"}
		app := WithMockLogger(NewTestApp(), mockLogger)
		app.Stderr = &stderr

		app.reportFatal(errors.New("lock held"))

		assert.True(t, mockLogger.HasMessage("ERROR", "lock held"))
		assert.Empty(t, stderr.String())
	})

	t.Run("LoggerWithoutFileNonInteractive", func(t *testing.T) {
		var stderr bytes.Buffer
		mockLogger := &MockLogger{}
		app := WithMockLogger(NewTestApp(), mockLogger)
		app.Stderr = &stderr

		app.reportFatal(errors.New("log dir unwritable"))

		assert.Empty(t, mockLogger.Messages)
		assert.Contains(t, stderr.String(), "log dir unwritable")
	})
}
