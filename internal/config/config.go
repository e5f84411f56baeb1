package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	CheckPaths    []string      `toml:"check_paths"`
	IncludeTests  bool          `toml:"include_tests"`
	ExtraBases    []string      `toml:"extra_enum_bases"`
	Exclude       Exclude       `toml:"exclude"`
	Checks        Checks        `toml:"checks"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Checks struct {
	Members   *bool `toml:"members"`
	Conflicts *bool `toml:"conflicts"`
}

type Output struct {
	TSV      string `toml:"tsv"`
	Markdown string `toml:"markdown"`
	SARIF    string `toml:"sarif"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce    time.Duration `toml:"debounce"`
	RescanRate  float64       `toml:"rescan_rate"`
	RescanBurst int           `toml:"rescan_burst"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.CheckPaths) == 0 {
		cfg.CheckPaths = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", ".tox", ".venv", "venv", "node_modules", "__pycache__", "*.egg-info"}
	}
	if cfg.Checks.Members == nil {
		cfg.Checks.Members = boolPtr(true)
	}
	if cfg.Checks.Conflicts == nil {
		cfg.Checks.Conflicts = boolPtr(true)
	}
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".enumchecker/history.db"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.RescanRate == 0 {
		cfg.Watch.RescanRate = 1
	}
	if cfg.Watch.RescanBurst == 0 {
		cfg.Watch.RescanBurst = 2
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", cfg.Version)
	}
	for _, p := range cfg.CheckPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("check_paths must not contain empty entries")
		}
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.RescanRate < 0 {
		return fmt.Errorf("watch.rescan_rate must not be negative")
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }
