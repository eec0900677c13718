package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/bashhack/dbbak/internal/constants"
	dbbakErrors "github.com/bashhack/dbbak/internal/errors"
	"github.com/bashhack/dbbak/internal/lock"
)

// Environment variables consulted by LoadFromEnvironment
const (
	EnvConfigFile = "DBBAK_CONFIG"
	EnvLogDir     = "DBBAK_LOG_DIR"
	EnvLockFile   = "DBBAK_LOCK_FILE"
	EnvVerbose    = "DBBAK_VERBOSE"
)

// Config holds all dbbak settings.
// Values are layered: defaults, then the YAML config file, then environment
// variables, then command-line flags. The result is built once at startup and
// passed to the logger and the lock manager.
type Config struct {
	// LogDir is the directory receiving dbbak_<YYYYMMDD_HHMMSS>.log.
	LogDir string

	// LockFile is the path of the single-instance lock.
	LockFile string

	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string

	// Verbose enables VERBOSE records in the log file and on the terminal.
	Verbose bool

	// Special flags

	// ShowHelp is set when -h/--help was given; usage has already been printed.
	ShowHelp bool

	// Version indicates whether to show version information and exit.
	Version bool

	// Build metadata

	// VersionInfo contains version, commit, and build date information.
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// fileConfig is the on-disk YAML shape
type fileConfig struct {
	LogDir   string `yaml:"log_dir"`
	LockFile string `yaml:"lock_file"`
	Verbose  *bool  `yaml:"verbose"`
}

// flagValues receives parsed flags before they are applied to Config
type flagValues struct {
	help       bool
	verbose    bool
	logDir     string
	lockFile   string
	configFile string
	version    bool
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		LogDir:   DefaultLogDir(),
		LockFile: lock.DefaultPath(),
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// DefaultLogDir follows the XDG Base Directory Specification for state data
func DefaultLogDir() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			stateDir = filepath.Join(homeDir, ".local", "state")
		} else {
			stateDir = os.TempDir()
		}
	}
	return filepath.Join(stateDir, constants.ToolName, "logs")
}

// LoadFromFile reads log_dir, lock_file and verbose from a YAML file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return dbbakErrors.NewConfigError("configFile", path,
			dbbakErrors.Wrap(dbbakErrors.ErrInvalidConfiguration, err.Error()))
	}
	defer func() { _ = f.Close() }()

	var fc fileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return dbbakErrors.NewConfigError("configFile", path,
			dbbakErrors.Wrap(dbbakErrors.ErrInvalidConfiguration, err.Error()))
	}

	if fc.LogDir != "" {
		c.LogDir = fc.LogDir
	}
	if fc.LockFile != "" {
		c.LockFile = fc.LockFile
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	c.ConfigFile = path
	return nil
}

// LoadFromEnvironment updates config from environment variables
func (c *Config) LoadFromEnvironment() {
	c.LogDir = getEnvString(EnvLogDir, c.LogDir)
	c.LockFile = getEnvString(EnvLockFile, c.LockFile)
	c.Verbose = getEnvBool(EnvVerbose, c.Verbose)
}

// setupFlags registers the command-line flags on fs
func (c *Config) setupFlags(fs *pflag.FlagSet, v *flagValues) {
	fs.BoolVarP(&v.help, "help", "h", false, "Display help message and exit")
	fs.BoolVarP(&v.verbose, "verbose", "v", c.Verbose, "Enable verbose logging and terminal output")
	fs.StringVarP(&v.logDir, "log-dir", "l", c.LogDir, "Write log files to `DIR`")
	fs.StringVar(&v.lockFile, "lock-file", c.LockFile, "Use `FILE` as the single-instance lock")
	fs.StringVarP(&v.configFile, "config", "c", "", "Load settings from YAML `FILE`")
	fs.BoolVar(&v.version, "version", false, "Print version information and exit")
}

// PrintUsage prints a formatted help message with grouped flags
func (c *Config) PrintUsage(fs *pflag.FlagSet, w io.Writer) {
	programName := filepath.Base(os.Args[0])

	_, _ = fmt.Fprintf(w, "%s: %s\n\n", constants.ToolName, constants.Tagline)
	_, _ = fmt.Fprintf(w, "Usage: %s [options]\n\n", programName)
	_, _ = fmt.Fprintf(w, "Only one %s runs at a time per lock file. A second invocation exits\n", constants.ToolName)
	_, _ = fmt.Fprintf(w, "immediately with status 1 while the first still holds the lock.\n\n")

	_, _ = fmt.Fprintf(w, "Examples:\n")
	_, _ = fmt.Fprintf(w, "  %s -v                              # Verbose run with default paths\n", programName)
	_, _ = fmt.Fprintf(w, "  %s -l /var/log/dbbak               # Custom log directory\n", programName)
	_, _ = fmt.Fprintf(w, "  %s --lock-file /run/dbbak.lock     # Custom lock file\n\n", programName)

	_, _ = fmt.Fprintf(w, "Options:\n")
	printFlagIfExists(w, fs, "verbose")
	printFlagIfExists(w, fs, "log-dir")
	printFlagIfExists(w, fs, "lock-file")
	printFlagIfExists(w, fs, "config")
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "Information:\n")
	printFlagIfExists(w, fs, "version")
	printFlagIfExists(w, fs, "help")
	_, _ = fmt.Fprintf(w, "\n")

	_, _ = fmt.Fprintf(w, "Environment variables:\n")
	_, _ = fmt.Fprintf(w, "  %-20s YAML config file\n", EnvConfigFile)
	_, _ = fmt.Fprintf(w, "  %-20s Log directory\n", EnvLogDir)
	_, _ = fmt.Fprintf(w, "  %-20s Lock file path\n", EnvLockFile)
	_, _ = fmt.Fprintf(w, "  %-20s Enable verbose logging (true/false)\n", EnvVerbose)
}

// printFlagIfExists prints a flag's usage if it exists in the FlagSet
func printFlagIfExists(w io.Writer, fs *pflag.FlagSet, name string) {
	f := fs.Lookup(name)
	if f == nil {
		return
	}

	varName, usage := pflag.UnquoteUsage(f)

	flagName := "--" + f.Name
	if f.Shorthand != "" {
		flagName = fmt.Sprintf("-%s, %s", f.Shorthand, flagName)
	}
	if varName != "" && f.Value.Type() != "bool" {
		flagName = fmt.Sprintf("%s %s", flagName, varName)
	}

	defaultValue := ""
	if f.DefValue != "" && f.DefValue != "false" {
		defaultValue = fmt.Sprintf(" (default: %s)", f.DefValue)
	}

	_, _ = fmt.Fprintf(w, "  %-28s %s%s\n", flagName, usage, defaultValue)
}

// ParseFlags parses args (without the program name) and layers the config
// file, the environment and the flags onto c. On -h/--help usage is written
// to stdout and ShowHelp is set. A malformed command line writes the error
// and usage to stderr and returns a ConfigError wrapping ErrInvalidFlag.
func (c *Config) ParseFlags(args []string, stdout, stderr io.Writer) error {
	var v flagValues

	fs := pflag.NewFlagSet(constants.ToolName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	c.setupFlags(fs, &v)

	if err := fs.Parse(args); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %s\n\n", err)
		c.PrintUsage(fs, stderr)
		return dbbakErrors.NewConfigError("flags", nil, dbbakErrors.Wrap(dbbakErrors.ErrInvalidFlag, err.Error()))
	}

	if v.help {
		c.PrintUsage(fs, stdout)
		c.ShowHelp = true
		return nil
	}

	if fs.NArg() > 0 {
		err := dbbakErrors.Errorf("unexpected argument %q", fs.Arg(0))
		_, _ = fmt.Fprintf(stderr, "Error: %s\n\n", err)
		c.PrintUsage(fs, stderr)
		return dbbakErrors.NewConfigError("flags", nil, dbbakErrors.Wrap(dbbakErrors.ErrInvalidFlag, err.Error()))
	}

	configFile := getEnvString(EnvConfigFile, "")
	if fs.Changed("config") {
		configFile = v.configFile
	}
	if configFile != "" {
		if err := c.LoadFromFile(configFile); err != nil {
			return err
		}
	}

	c.LoadFromEnvironment()

	// Only flags given explicitly override the file and the environment.
	if fs.Changed("verbose") {
		c.Verbose = v.verbose
	}
	if fs.Changed("log-dir") {
		c.LogDir = v.logDir
	}
	if fs.Changed("lock-file") {
		c.LockFile = v.lockFile
	}
	c.Version = v.version

	return nil
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if strings.TrimSpace(c.LogDir) == "" {
		return dbbakErrors.NewConfigError("logDir", c.LogDir,
			dbbakErrors.Wrap(dbbakErrors.ErrInvalidConfiguration, "log directory must not be empty"))
	}
	if strings.TrimSpace(c.LockFile) == "" {
		return dbbakErrors.NewConfigError("lockFile", c.LockFile,
			dbbakErrors.Wrap(dbbakErrors.ErrInvalidConfiguration, "lock file must not be empty"))
	}

	absLogDir, err := filepath.Abs(c.LogDir)
	if err != nil {
		return dbbakErrors.NewConfigError("logDir", c.LogDir, dbbakErrors.Wrapf(err, "failed to resolve absolute path of %s", c.LogDir))
	}
	c.LogDir = absLogDir

	absLockFile, err := filepath.Abs(c.LockFile)
	if err != nil {
		return dbbakErrors.NewConfigError("lockFile", c.LockFile, dbbakErrors.Wrapf(err, "failed to resolve absolute path of %s", c.LockFile))
	}
	c.LockFile = absLockFile

	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}
