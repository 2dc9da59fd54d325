package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	fileName  = "config"
	fileType  = "yaml"
	envPrefix = "PLANBOARD"
	homeDir   = ".planboard"
)

// Keys understood in config.yaml and as PLANBOARD_<KEY> env vars.
const (
	KeyAPIURL   = "api_url"
	KeyTimeout  = "timeout"
	KeyCacheTTL = "cache_ttl"
	KeyDayWidth = "day_width"
	KeyDataDir  = "data_dir"
	KeyLogFile  = "log_file"
	KeyLogLevel = "log_level"
	KeyTheme    = "theme"
)

var Keys = []string{KeyAPIURL, KeyTimeout, KeyCacheTTL, KeyDayWidth, KeyDataDir, KeyLogFile, KeyLogLevel, KeyTheme}

type Config struct {
	APIURL   string        `json:"api_url" yaml:"api_url"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	DayWidth int           `json:"day_width" yaml:"day_width"`
	DataDir  string        `json:"data_dir" yaml:"data_dir"`
	LogFile  string        `json:"log_file" yaml:"log_file"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
	Theme    string        `json:"theme" yaml:"theme"`
}

// Dir returns the planboard home directory (~/.planboard/).
// PLANBOARD_HOME overrides it, which keeps tests away from the real home.
func Dir() string {
	if v := strings.TrimSpace(os.Getenv(envPrefix + "_HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", homeDir)
	}
	return filepath.Join(home, homeDir)
}

// FilePath returns the default config file path (~/.planboard/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// New builds a viper instance with defaults, env binding and, when present,
// the config file. An empty path means FilePath().
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	dir := Dir()
	v.SetDefault(KeyAPIURL, "http://localhost:8000/api")
	v.SetDefault(KeyTimeout, 15*time.Second)
	v.SetDefault(KeyCacheTTL, 30*time.Second)
	v.SetDefault(KeyDayWidth, 3)
	v.SetDefault(KeyDataDir, dir)
	v.SetDefault(KeyLogFile, filepath.Join(dir, "planboard.log"))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTheme, "auto")

	if strings.TrimSpace(path) == "" {
		path = FilePath()
	}
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is the normal first-run state.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load resolves the effective configuration.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIURL:   strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/"),
		Timeout:  v.GetDuration(KeyTimeout),
		CacheTTL: v.GetDuration(KeyCacheTTL),
		DayWidth: v.GetInt(KeyDayWidth),
		DataDir:  strings.TrimSpace(v.GetString(KeyDataDir)),
		LogFile:  strings.TrimSpace(v.GetString(KeyLogFile)),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		Theme:    strings.ToLower(strings.TrimSpace(v.GetString(KeyTheme))),
	}
	if cfg.APIURL == "" {
		return Config{}, errors.New("api_url is not set")
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive; got %s", cfg.Timeout)
	}
	if cfg.DayWidth < 1 {
		cfg.DayWidth = 1
	}
	switch cfg.Theme {
	case "", "auto", "light", "dark":
	default:
		return Config{}, fmt.Errorf("theme must be auto, light or dark; got %q", cfg.Theme)
	}
	return cfg, nil
}

// Set writes one key to the config file used by v, creating it if needed.
func Set(v *viper.Viper, key, value string) error {
	if !knownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	path := v.ConfigFileUsed()
	if path == "" {
		path = FilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	// Write through a file-only instance so defaults and env values stay out
	// of the file.
	fv := viper.New()
	fv.SetConfigFile(path)
	fv.SetConfigType(fileType)
	_ = fv.ReadInConfig()
	fv.Set(key, value)
	if err := fv.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	v.Set(key, value)
	return nil
}

func knownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}
