package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bashhack/dbbak/internal/config"
	"github.com/bashhack/dbbak/internal/constants"
	dbbakErrors "github.com/bashhack/dbbak/internal/errors"
	"github.com/bashhack/dbbak/internal/lock"
	"github.com/bashhack/dbbak/internal/logger"
)

// Backuper runs the backup workflow once initialization has completed
type Backuper interface {
	Run(ctx context.Context) error
}

// Locker manages the single-instance lock
type Locker interface {
	Acquire() error
	Release() error
}

// AppOptions contains app configuration and dependencies.
// Nil optional fields are replaced with production defaults.
type AppOptions struct {
	// Config holds the application configuration settings (required).
	// The application will panic if this field is nil.
	Config *config.Config

	// Optional components

	// Logger writes leveled records to the log file and terminal.
	// A DefaultLogger rooted at Config.LogDir is created if nil.
	Logger logger.Logger

	// Locker guards against concurrent dbbak runs.
	// A lock.Locker on Config.LockFile is created if nil.
	Locker Locker

	// Backuper receives control after the lock is held.
	Backuper Backuper

	// I/O dependencies

	// Stdout is the writer for usage, version and terminal log output.
	Stdout io.Writer

	// Stderr is the writer for error output.
	Stderr io.Writer

	// System dependencies

	// Exit terminates the process (defaults to os.Exit).
	Exit func(code int)

	// IsInteractive decides terminal output (defaults to logger.DetectInteractive).
	IsInteractive func() bool

	// Notify registers for termination signals (defaults to signal.Notify).
	Notify func(c chan<- os.Signal, sig ...os.Signal)

	// ShutdownGrace is how long a signalled run may take to return before
	// dbbak releases the lock and exits anyway (defaults to DefaultShutdownGrace).
	ShutdownGrace time.Duration
}

// DefaultShutdownGrace bounds the wait for the workflow after a signal
const DefaultShutdownGrace = 5 * time.Second

// App is the main dbbak application.
// It wires configuration, logging and locking together and guarantees that
// the lock is released on every exit path.
type App struct {
	// Config holds the application configuration and settings.
	Config *config.Config

	// Logger provides leveled logging for the whole run.
	Logger logger.Logger

	// Locker manages the single-instance lock.
	Locker Locker

	// Backuper is handed control once initialization completes.
	Backuper Backuper

	// I/O streams

	Stdout io.Writer
	Stderr io.Writer

	// System dependencies

	exit          func(code int)
	isInteractive func() bool
	notify        func(c chan<- os.Signal, sig ...os.Signal)
	shutdownGrace time.Duration

	closeOnce  sync.Once
	closeErr   error
	signalOnce sync.Once
}

// NewDefaultApp creates an App with standard dependencies for the given
// build metadata.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return NewApp(AppOptions{
		Config: cfg,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Exit:   os.Exit,
	})
}

// NewApp creates an App with custom dependencies specified in opts.
// It panics if opts.Config is nil.
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:        opts.Config,
		Logger:        opts.Logger,
		Locker:        opts.Locker,
		Backuper:      opts.Backuper,
		Stdout:        opts.Stdout,
		Stderr:        opts.Stderr,
		exit:          opts.Exit,
		isInteractive: opts.IsInteractive,
		notify:        opts.Notify,
		shutdownGrace: opts.ShutdownGrace,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.isInteractive == nil {
		app.isInteractive = logger.DetectInteractive
	}
	if app.notify == nil {
		app.notify = signal.Notify
	}
	if app.shutdownGrace <= 0 {
		app.shutdownGrace = DefaultShutdownGrace
	}

	return app
}

// Initialize finalizes the configuration and sets up components not
// provided during construction. The logger is initialized first so that
// later failures can be recorded in the log file.
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if dbbakErrors.Is(err, dbbakErrors.ErrInvalidConfiguration) {
			return err
		}
		return dbbakErrors.Wrap(dbbakErrors.ErrInvalidConfiguration, err.Error())
	}

	if a.Logger == nil {
		a.Logger = logger.New(logger.Options{
			Verbose:     a.Config.Verbose,
			Interactive: a.isInteractive(),
			Stdout:      a.Stdout,
			Stderr:      a.Stderr,
		})
	}

	if err := a.Logger.Initialize(a.Config.LogDir); err != nil {
		return err
	}

	if a.Locker == nil {
		locker, err := lock.New(a.Config.LockFile, a.Logger)
		if err != nil {
			return dbbakErrors.Wrap(err, "failed to initialize lock")
		}
		a.Locker = locker
	}

	if a.Backuper == nil {
		a.Backuper = newHandoff(a.Config, a.Logger)
	}

	return nil
}

// Run acquires the lock, emits the banner and hands control to the
// backup workflow. Initialize must have succeeded before Run is called.
func (a *App) Run(ctx context.Context) error {
	if err := a.Locker.Acquire(); err != nil {
		if dbbakErrors.Is(err, dbbakErrors.ErrAlreadyRunning) || dbbakErrors.Is(err, dbbakErrors.ErrLockIO) {
			return err
		}
		return dbbakErrors.Wrap(dbbakErrors.ErrLockAcquisitionFailure, err.Error())
	}

	if a.Logger.Interactive() {
		a.ShowLogo()
	}

	a.Logger.Info("Lock acquired: %s", a.Config.LockFile)
	a.Logger.Verbose("Process ID: %d", os.Getpid())
	a.Logger.Verbose("Log file: %s", a.Logger.Path())
	if a.Config.ConfigFile != "" {
		a.Logger.Verbose("Config file: %s", a.Config.ConfigFile)
	}

	return a.Backuper.Run(ctx)
}

// Execute runs dbbak for the given command line (without the program
// name) and returns the process exit status. Termination signals are
// watched from before lock acquisition until Execute returns.
func (a *App) Execute(args []string) int {
	if err := a.Config.ParseFlags(args, a.Stdout, a.Stderr); err != nil {
		// Flag errors were already printed together with the usage text.
		if !dbbakErrors.Is(err, dbbakErrors.ErrInvalidFlag) {
			a.reportFatal(err)
		}
		return constants.ExitFailure
	}

	if a.Config.ShowHelp {
		return constants.ExitOK
	}

	if a.Config.Version {
		a.ShowVersion()
		return constants.ExitOK
	}

	if err := a.Initialize(); err != nil {
		a.reportFatal(err)
		_ = a.Close()
		return constants.ExitFailure
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	a.notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	caught := make(chan os.Signal, 1)
	done := make(chan struct{})
	defer close(done)

	// The watcher only cancels. If the workflow ignores cancellation for
	// longer than the grace period, it cleans up and exits on its own.
	go func() {
		select {
		case sig := <-sigCh:
			caught <- sig
			cancel()
			select {
			case <-done:
			case <-time.After(a.shutdownGrace):
				a.exit(a.CleanupOnSignal(sig))
			}
		case <-done:
		}
	}()

	err := a.Run(ctx)

	select {
	case sig := <-caught:
		return a.CleanupOnSignal(sig)
	default:
	}

	if err != nil {
		a.reportFatal(err)
		_ = a.Close()
		return constants.ExitFailure
	}

	if err := a.Close(); err != nil {
		return constants.ExitFailure
	}
	return constants.ExitOK
}

// reportFatal records err at ERROR level. Without a usable logger the
// message goes straight to stderr.
func (a *App) reportFatal(err error) {
	if a.Logger != nil && (a.Logger.Path() != "" || a.Logger.Interactive()) {
		a.Logger.Error("%v", err)
		return
	}
	_, _ = fmt.Fprintf(a.Stderr, "%s: %v\n", constants.ToolName, err)
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	_, _ = fmt.Fprintf(a.Stdout, "%s %s (%s) built on %s\n",
		constants.ToolName,
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// ShowLogo emits the banner through the logger, one INFO record per line
func (a *App) ShowLogo() {
	for _, line := range strings.Split(constants.Logo, "\n") {
		a.Logger.Info("%s", line)
	}
	a.Logger.Info("%s", constants.Tagline)
}

// Close releases the lock and closes the logger. Only the first call does
// any work; later calls return the first result.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error

		if a.Locker != nil {
			if err := a.Locker.Release(); err != nil {
				if a.Logger != nil {
					a.Logger.Error("Failed to release lock during cleanup: %v", err)
				} else {
					_, _ = fmt.Fprintf(a.Stderr, "Failed to release lock during cleanup: %v\n", err)
				}
				errs = append(errs, err)
			}
		}

		if a.Logger != nil {
			if err := a.Logger.Close(); err != nil {
				_, _ = fmt.Fprintf(a.Stderr, "Failed to close logger: %v\n", err)
				errs = append(errs, err)
			}
		}

		if len(errs) > 0 {
			a.closeErr = dbbakErrors.Join(errs...)
		}
	})
	return a.closeErr
}

// CleanupOnSignal records the signal, releases resources and returns the
// exit status for termination by sig.
func (a *App) CleanupOnSignal(sig os.Signal) int {
	a.signalOnce.Do(func() {
		if a.Logger != nil {
			a.Logger.Warning("Received %v, shutting down", sig)
		}
	})

	if err := a.Close(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "Error during cleanup: %v\n", err)
	}

	return signalExitCode(sig)
}

// signalExitCode follows the shell convention of 128 plus the signal number
func signalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return constants.ExitSignalBase + int(s)
	}
	return constants.ExitFailure
}
