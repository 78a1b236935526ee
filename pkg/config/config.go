package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	General GeneralConfig `toml:"general"`
	API     APIConfig     `toml:"api"`
	Ollama  OllamaConfig  `toml:"ollama"`
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
}

type GeneralConfig struct {
	DataDir string `toml:"data_dir"`
}

type APIConfig struct {
	ListenAddr      string `toml:"listen_addr"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	IdleTimeout     string `toml:"idle_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	EnableCORS      bool   `toml:"enable_cors"`

	ReadTimeoutD     time.Duration `toml:"-"`
	WriteTimeoutD    time.Duration `toml:"-"`
	IdleTimeoutD     time.Duration `toml:"-"`
	ShutdownTimeoutD time.Duration `toml:"-"`
}

type OllamaConfig struct {
	BaseURL         string `toml:"base_url"`
	PullTimeout     string `toml:"pull_timeout"`
	GenerateTimeout string `toml:"generate_timeout"`

	PullTimeoutD     time.Duration `toml:"-"`
	GenerateTimeoutD time.Duration `toml:"-"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Default() *Config {
	return &Config{
		General: GeneralConfig{
			DataDir: "~/.omm",
		},
		API: APIConfig{
			ListenAddr:      ":8000",
			ReadTimeout:     "15s",
			WriteTimeout:    "5m",
			IdleTimeout:     "60s",
			ShutdownTimeout: "10s",
			EnableCORS:      false,
		},
		Ollama: OllamaConfig{
			BaseURL:         "http://localhost:11434",
			PullTimeout:     "30m",
			GenerateTimeout: "5m",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "", // resolved against data_dir when empty
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func LoadFromFile(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expand path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}

	return cfg, nil
}

// Load reads configuration from the given path, falling back to
// defaults when path is empty, then applies environment overrides and
// resolves durations and paths.
func Load(configPath string) (*Config, error) {
	var cfg *Config
	var err error

	if configPath != "" {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	ApplyEnvOverrides(cfg)

	if err := cfg.postProcess(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides overrides config fields from OMM_* environment
// variables.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OMM_DATA_DIR"); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv("OMM_LISTEN_ADDR"); v != "" {
		cfg.API.ListenAddr = v
	}
	if v := os.Getenv("OMM_OLLAMA_URL"); v != "" {
		cfg.Ollama.BaseURL = v
	}
	if v := os.Getenv("OMM_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("OMM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OMM_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

func (c *Config) postProcess() error {
	var err error

	if c.API.ReadTimeoutD, err = time.ParseDuration(c.API.ReadTimeout); err != nil {
		return fmt.Errorf("parse api.read_timeout: %w", err)
	}
	if c.API.WriteTimeoutD, err = time.ParseDuration(c.API.WriteTimeout); err != nil {
		return fmt.Errorf("parse api.write_timeout: %w", err)
	}
	if c.API.IdleTimeoutD, err = time.ParseDuration(c.API.IdleTimeout); err != nil {
		return fmt.Errorf("parse api.idle_timeout: %w", err)
	}
	if c.API.ShutdownTimeoutD, err = time.ParseDuration(c.API.ShutdownTimeout); err != nil {
		return fmt.Errorf("parse api.shutdown_timeout: %w", err)
	}
	if c.Ollama.PullTimeoutD, err = time.ParseDuration(c.Ollama.PullTimeout); err != nil {
		return fmt.Errorf("parse ollama.pull_timeout: %w", err)
	}
	if c.Ollama.GenerateTimeoutD, err = time.ParseDuration(c.Ollama.GenerateTimeout); err != nil {
		return fmt.Errorf("parse ollama.generate_timeout: %w", err)
	}

	if c.General.DataDir, err = expandPath(c.General.DataDir); err != nil {
		return fmt.Errorf("expand general.data_dir: %w", err)
	}

	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "downloads.db")
	} else if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("expand history.path: %w", err)
	}

	return nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
