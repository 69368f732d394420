package config

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/fiber/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "fiber.json"

	// DefaultBudget is the default wall-clock budget of one render slice.
	DefaultBudget = 5 * time.Millisecond

	// DefaultYieldThreshold is the remaining time below which a slice yields.
	DefaultYieldThreshold = time.Millisecond

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultSnapshotDir is the default directory for file snapshots.
	DefaultSnapshotDir = ".fiber/snapshots"
)

// Duration is a time.Duration that reads and writes as a string such as
// "5ms".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler. Bare numbers are nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the complete fiber.json configuration.
type Config struct {
	// Slice contains render slice settings.
	Slice SliceConfig `json:"slice,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Inspect contains inspector server settings.
	Inspect InspectConfig `json:"inspect,omitempty"`

	// Snapshot contains snapshot store settings.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Scenes lists scene files or directories watched by `fiber watch`.
	Scenes []string `json:"scenes,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SliceConfig contains scheduler settings.
type SliceConfig struct {
	// Budget is the wall-clock budget of one slice (e.g., "5ms").
	Budget Duration `json:"budget,omitempty"`

	// YieldThreshold is the remaining time below which a slice yields.
	YieldThreshold Duration `json:"yieldThreshold,omitempty"`

	// MaxRestarts caps consecutive restarts caused by setters called
	// during render.
	MaxRestarts int `json:"maxRestarts,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// JSON selects the JSON handler instead of text.
	JSON bool `json:"json,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`
}

// SnapshotConfig contains snapshot store settings. S3 takes precedence over
// Dir when a bucket is set.
type SnapshotConfig struct {
	// Dir is the directory for file snapshots.
	Dir string `json:"dir,omitempty"`

	// S3 configures uploads to an S3 bucket.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 snapshot settings.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Slice: SliceConfig{
			Budget:         Duration(DefaultBudget),
			YieldThreshold: Duration(DefaultYieldThreshold),
			MaxRestarts:    25,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Inspect: InspectConfig{
			Addr: DefaultInspectAddr,
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for fiber.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No fiber.json found in " + filepath.Dir(path)).
				WithSuggestion("Create fiber.json or pass settings as flags")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse fiber.json: " + err.Error()).
			WithSuggestion("Check that fiber.json is valid JSON and durations are strings like \"5ms\"")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Slice.Budget == 0 {
		c.Slice.Budget = Duration(DefaultBudget)
	}
	if c.Slice.YieldThreshold == 0 {
		c.Slice.YieldThreshold = Duration(DefaultYieldThreshold)
	}
	if c.Slice.MaxRestarts == 0 {
		c.Slice.MaxRestarts = 25
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Slice.Budget < 0 {
		return errors.New("E122").
			WithDetail("slice.budget must not be negative")
	}
	if c.Slice.YieldThreshold < 0 || c.Slice.YieldThreshold > c.Slice.Budget {
		return errors.New("E122").
			WithDetailf("slice.yieldThreshold %s must be between 0 and slice.budget %s",
				c.Slice.YieldThreshold.Std(), c.Slice.Budget.Std())
	}
	if c.Slice.MaxRestarts < 0 {
		return errors.New("E122").
			WithDetail("slice.maxRestarts must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(c.Inspect.Addr); err != nil {
		return errors.New("E122").
			WithDetailf("inspect.addr %q: %v", c.Inspect.Addr, err).
			WithSuggestion("Use host:port, for example localhost:7070")
	}
	if s3 := c.Snapshot.S3; s3.Bucket == "" && (s3.Prefix != "" || s3.Endpoint != "") {
		return errors.New("E122").
			WithDetail("snapshot.s3.bucket is required when other s3 settings are set")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, errors.New("E122").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return level, nil
}

// SnapshotPath returns the absolute path to the snapshot directory.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Dir) {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// ScenePaths returns the scene paths resolved against the config directory.
func (c *Config) ScenePaths() []string {
	out := make([]string, 0, len(c.Scenes))
	for _, p := range c.Scenes {
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Dir(), p)
		}
		out = append(out, p)
	}
	return out
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing fiber.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E121").
				WithDetail("No fiber.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or one of its parents. Without a fiber.json the defaults are
// returned.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if stderrors.Is(err, errors.New("E121")) {
			cfg := New()
			cfg.configPath = filepath.Join(wd, ConfigFileName)
			return cfg, nil
		}
		return nil, err
	}

	return Load(root)
}
