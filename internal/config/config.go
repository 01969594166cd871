package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. ABC_CONSOLE_BACKEND_URL.
const EnvPrefix = "ABC_CONSOLE"

// Config holds all configuration for the console.
type Config struct {
	Backend BackendConfig
	Log     LogConfig
	Web     WebConfig
}

type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// WebConfig configures the read-only web mirror. An empty Addr disables it.
type WebConfig struct {
	Addr           string
	Rate           float64
	Burst          int
	AllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:5000")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("web.addr", "")
	v.SetDefault("web.rate", 5.0)
	v.SetDefault("web.burst", 10)
	v.SetDefault("web.allowed_origins", []string{"*"})
}

func flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("abc-console", pflag.ContinueOnError)
	flags.String("config", "", "path to a config file")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("backend-url", "", "inventory backend base URL")
	flags.Duration("backend-timeout", 0, "per-request timeout")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	flags.String("web-addr", "", "listen address of the web mirror, empty disables it")
	return flags
}

var flagKeys = map[string]string{
	"backend-url":     "backend.url",
	"backend-timeout": "backend.timeout",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"web-addr":        "web.addr",
}

// Load reads configuration from, in increasing priority: defaults, a config
// file, a dotenv file, the environment and command line flags. It returns
// pflag.ErrHelp when -h was given.
func Load(args []string) (*Config, error) {
	flags := flagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := flags.GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	if err := readConfigFile(v, flags); err != nil {
		return nil, err
	}

	cfg := &Config{
		Backend: BackendConfig{
			URL:     v.GetString("backend.url"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Web: WebConfig{
			Addr:           v.GetString("web.addr"),
			Rate:           v.GetFloat64("web.rate"),
			Burst:          v.GetInt("web.burst"),
			AllowedOrigins: splitList(v.GetStringSlice("web.allowed_origins")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	path, _ := flags.GetString("config")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("abc-console")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/abc-console")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// splitList accepts both list values and a single comma separated string,
// which is what an environment variable yields.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return errors.New("backend URL is required")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %s", c.Backend.Timeout)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	if c.Web.Addr != "" {
		if c.Web.Rate <= 0 {
			return fmt.Errorf("web rate must be positive, got %v", c.Web.Rate)
		}
		if c.Web.Burst <= 0 {
			return fmt.Errorf("web burst must be positive, got %d", c.Web.Burst)
		}
	}
	return nil
}
