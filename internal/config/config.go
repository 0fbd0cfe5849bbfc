// Package config loads segue settings from defaults, an optional config file, a .env
// file and SEGUE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// EnvPrefix prefixes every environment override, e.g. SEGUE_STORAGE_PATH.
const EnvPrefix = "SEGUE"

// Config represents the complete segue configuration
type Config struct {
	Weights domain.Weights `mapstructure:"weights"`
	Search  SearchConfig   `mapstructure:"search"`
	Storage StorageConfig  `mapstructure:"storage"`
	Server  ServerConfig   `mapstructure:"server"`
	Log     LogConfig      `mapstructure:"log"`
	Workers WorkersConfig  `mapstructure:"workers"`
}

// SearchConfig controls every sequencing run
type SearchConfig struct {
	// Heuristic is "min-edge" (default, admissible) or "min-hop"
	Heuristic string `mapstructure:"heuristic"`
	// VisitMode is "remaining-set" (default) or "prefix"
	VisitMode string `mapstructure:"visit_mode"`
	// MaxExpansions bounds the states expanded per search (0 = unbounded)
	MaxExpansions int `mapstructure:"max_expansions"`
	// Timeout bounds a single search (0 = disabled)
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the playlist store
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// ServerConfig controls the HTTP API. The search limits cap the search settings for
// requests; they apply even when search.timeout or search.max_expansions is 0.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	SearchTimeout     time.Duration `mapstructure:"search_timeout"`
	MaxExpansions     int           `mapstructure:"max_expansions"`
	MaxTracks         int           `mapstructure:"max_tracks"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
}

// LogConfig controls log output
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// WorkersConfig sizes the best-start search pool
type WorkersConfig struct {
	Count     int `mapstructure:"count"`
	QueueSize int `mapstructure:"queue_size"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Weights: domain.DefaultWeights(),
		Search: SearchConfig{
			Heuristic: "min-edge",
			VisitMode: "remaining-set",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "segue.db",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			SearchTimeout:     10 * time.Second,
			MaxExpansions:     200000,
			MaxTracks:         64,
			MaxBodyBytes:      1 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
		Workers: WorkersConfig{
			Count:     runtime.NumCPU(),
			QueueSize: 100,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("weights.tempo", d.Weights.Tempo)
	v.SetDefault("weights.energy", d.Weights.Energy)
	v.SetDefault("weights.danceability", d.Weights.Danceability)
	v.SetDefault("weights.key", d.Weights.Key)
	v.SetDefault("weights.mode", d.Weights.Mode)

	v.SetDefault("search.heuristic", d.Search.Heuristic)
	v.SetDefault("search.visit_mode", d.Search.VisitMode)
	v.SetDefault("search.max_expansions", d.Search.MaxExpansions)
	v.SetDefault("search.timeout", d.Search.Timeout)

	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.search_timeout", d.Server.SearchTimeout)
	v.SetDefault("server.max_expansions", d.Server.MaxExpansions)
	v.SetDefault("server.max_tracks", d.Server.MaxTracks)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)

	v.SetDefault("log.level", d.Log.Level)

	v.SetDefault("workers.count", d.Workers.Count)
	v.SetDefault("workers.queue_size", d.Workers.QueueSize)
}

// Load reads the configuration and validates it. An empty path searches for segue.yaml,
// segue.toml or segue.json in the working directory and ConfigDir; a missing file is
// not an error then. A .env file in the working directory is loaded first; it never
// overrides variables that are already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("segue")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "segue")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".segue"
	}
	return filepath.Join(home, ".config", "segue")
}
