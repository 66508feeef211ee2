// Package config loads settings from defaults, an optional YAML file, a
// .env file and QUADRA_ environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sadopc/quadra/internal/insight"
	"github.com/sadopc/quadra/internal/store"
)

const EnvPrefix = "QUADRA"

type Config struct {
	DataDir string
	Storage Storage
	Log     Log
	Insight Insight
	Upgrade Upgrade
}

type Storage struct {
	Backend string
	Slot    string
}

type Log struct {
	Mode  string
	Level string
}

type Insight struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Upgrade struct {
	Delay time.Duration
}

// Options are the command line overrides. Empty fields are ignored.
type Options struct {
	ConfigFile string
	EnvFile    string
	DataDir    string
	Backend    string
}

// fallbackKeyEnv is consulted, in order, when insight.api_key is unset.
var fallbackKeyEnv = []string{"GEMINI_API_KEY", "API_KEY"}

// DefaultDataDir returns the per-user config directory for quadra.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "quadra")
	}
	return "~/.quadra"
}

func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("storage.backend", store.BackendDiskv)
	v.SetDefault("storage.slot", store.DefaultSlot)
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("insight.api_key", "")
	v.SetDefault("insight.model", insight.DefaultModel)
	v.SetDefault("insight.base_url", insight.DefaultBaseURL)
	v.SetDefault("insight.timeout", insight.DefaultTimeout)
	v.SetDefault("upgrade.delay", time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.DataDir != "" {
		v.Set("data_dir", opts.DataDir)
	}

	if opts.ConfigFile != "" {
		path, err := homedir.Expand(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := homedir.Expand(v.GetString("data_dir")); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.Backend != "" {
		v.Set("storage.backend", opts.Backend)
	}

	dataDir, err := homedir.Expand(v.GetString("data_dir"))
	if err != nil {
		return nil, fmt.Errorf("expand data dir: %w", err)
	}

	cfg := &Config{
		DataDir: dataDir,
		Storage: Storage{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
			Slot:    v.GetString("storage.slot"),
		},
		Log: Log{
			Mode:  v.GetString("log.mode"),
			Level: v.GetString("log.level"),
		},
		Insight: Insight{
			APIKey:  strings.TrimSpace(v.GetString("insight.api_key")),
			Model:   v.GetString("insight.model"),
			BaseURL: v.GetString("insight.base_url"),
			Timeout: v.GetDuration("insight.timeout"),
		},
		Upgrade: Upgrade{Delay: v.GetDuration("upgrade.delay")},
	}
	if cfg.Insight.APIKey == "" {
		cfg.Insight.APIKey = os.Getenv(EnvPrefix + "_API_KEY")
	}
	for _, name := range fallbackKeyEnv {
		if cfg.Insight.APIKey != "" {
			break
		}
		cfg.Insight.APIKey = strings.TrimSpace(os.Getenv(name))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	for _, b := range store.Backends {
		if c.Storage.Backend == b {
			return nil
		}
	}
	return fmt.Errorf("storage.backend must be one of %s, got %q",
		strings.Join(store.Backends, ", "), c.Storage.Backend)
}

// LogPath is where the TUI writes its log so it does not draw over the
// screen.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "quadra.log")
}

// Gemini returns the insight client settings.
func (c *Config) Gemini() insight.GeminiConfig {
	return insight.GeminiConfig{
		APIKey:  c.Insight.APIKey,
		Model:   c.Insight.Model,
		BaseURL: c.Insight.BaseURL,
		Timeout: c.Insight.Timeout,
	}
}
