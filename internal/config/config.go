package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/pbaille/moodlog/internal/kv"
	"github.com/pbaille/moodlog/internal/locale"
	"github.com/pbaille/moodlog/internal/trend"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

type Storage struct {
	Backend string `yaml:"backend"`
	Driver  string `yaml:"driver"`
	Path    string `yaml:"path"`
}

type Trend struct {
	Window int `yaml:"window"`
}

type Speech struct {
	Enabled bool   `yaml:"enabled"`
	Command string `yaml:"command"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Storage Storage `yaml:"storage"`
	Trend   Trend   `yaml:"trend"`
	Locale  string  `yaml:"locale"`
	Speech  Speech  `yaml:"speech"`
	Server  Server  `yaml:"server"`
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "moodlog", "config.yaml")
}

func DataDir() string {
	return filepath.Join(xdg.DataHome, "moodlog")
}

// StoragePath resolves the configured path, defaulting under the XDG data dir
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == BackendFile {
		return filepath.Join(DataDir(), "blobs")
	}
	return filepath.Join(DataDir(), "moodlog.db")
}

// TrendWindow returns the chart window, defaulting to 10.
func (c *Config) TrendWindow() int {
	if c.Trend.Window <= 0 {
		return trend.DefaultWindow
	}
	return c.Trend.Window
}

// Formatter returns the display formatter for the configured locale.
// An unparsable locale was already rejected by validate.
func (c *Config) Formatter() locale.Formatter {
	f, err := locale.Parse(c.Locale)
	if err != nil {
		f, _ = locale.Parse("ru-RU")
	}
	return f
}

// OpenBlob opens the configured storage backend
func (c *Config) OpenBlob() (kv.Blob, error) {
	switch c.Storage.Backend {
	case BackendFile:
		return kv.OpenFile(c.StoragePath())
	case BackendMemory:
		return kv.NewMemory(), nil
	default:
		return kv.OpenSQL(c.Storage.Driver, c.StoragePath())
	}
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads path (DefaultConfigPath when empty) over the embedded
// defaults, then applies MOODLOG_* environment overrides. A missing file
// is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: embedded defaults still apply
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MOODLOG_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("MOODLOG_DB"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MOODLOG_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	switch cfg.Storage.Backend {
	case BackendSQLite:
		if cfg.Storage.Driver != kv.DriverCGO && cfg.Storage.Driver != kv.DriverPureGo {
			return fmt.Errorf("storage: unknown driver %q (valid: %s, %s)", cfg.Storage.Driver, kv.DriverCGO, kv.DriverPureGo)
		}
	case BackendFile, BackendMemory:
	default:
		return fmt.Errorf("storage: unknown backend %q (valid: sqlite, file, memory)", cfg.Storage.Backend)
	}
	if cfg.Trend.Window <= 0 {
		return fmt.Errorf("trend: window must be positive, got %d", cfg.Trend.Window)
	}
	if _, err := locale.Parse(cfg.Locale); err != nil {
		return err
	}
	if cfg.Speech.Enabled && strings.TrimSpace(cfg.Speech.Command) == "" {
		return fmt.Errorf("speech: command is required when enabled")
	}
	return nil
}
