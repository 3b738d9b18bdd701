package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvServer         = "WALACOR_SERVER"
	EnvUsername       = "WALACOR_USERNAME"
	EnvPassword       = "WALACOR_PASSWORD"
	EnvRequestTimeout = "WALACOR_REQUEST_TIMEOUT"
	EnvLoginTimeout   = "WALACOR_LOGIN_TIMEOUT"
	EnvUserAgent      = "WALACOR_USER_AGENT"
	EnvExtraHeaders   = "WALACOR_EXTRA_HEADERS"
	EnvDownloadDir    = "WALACOR_DOWNLOAD_DIR"
	EnvRateLimit      = "WALACOR_RATE_LIMIT"
	EnvRateBurst      = "WALACOR_RATE_BURST"
	EnvLogLevel       = "WALACOR_SDK_LOG_LEVEL"
	EnvLogDir         = "WALACOR_SDK_LOG_DIR"
)

// LoadEnv loads the given dotenv files (".env" when none is given, ignored
// if missing) and builds a Config from WALACOR_* variables on top of
// DefaultConfig. Variables already set in the process win over files.
func LoadEnv(files ...string) (*Config, error) {
	if err := loadDotEnv(files...); err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads a YAML config file, then applies WALACOR_* overrides.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	cfg.WithBaseURL(cfg.BaseURL)
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields with any WALACOR_* variable that is set.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvServer); ok {
		c.WithBaseURL(v)
	}
	if v, ok := os.LookupEnv(EnvUsername); ok {
		c.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		c.Password = v
	}
	if v, ok := os.LookupEnv(EnvUserAgent); ok {
		c.UserAgent = v
	}
	if v, ok := os.LookupEnv(EnvDownloadDir); ok {
		c.DownloadDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvLogDir); ok {
		c.LogDir = v
	}
	if v, ok := os.LookupEnv(EnvExtraHeaders); ok {
		if c.ExtraHeaders == nil {
			c.ExtraHeaders = make(map[string]string)
		}
		if err := c.ExtraHeaders.Set(v); err != nil {
			return fmt.Errorf("%s: %w", EnvExtraHeaders, err)
		}
	}
	if err := envDuration(EnvRequestTimeout, &c.RequestTimeout); err != nil {
		return err
	}
	if err := envDuration(EnvLoginTimeout, &c.LoginTimeout); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvRateLimit); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		c.RateLimit = f
	}
	if v, ok := os.LookupEnv(EnvRateBurst); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateBurst, err)
		}
		c.RateBurst = n
	}
	return nil
}

// Validate checks the struct tags of the config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			msgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.Field(), e.Tag()))
			}
			return fmt.Errorf("invalid config:\n- %s", strings.Join(msgs, "\n- "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	for _, file := range files {
		if err := godotenv.Load(expandHome(file)); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = strings.Replace(path, "~", home, 1)
	}
	return path
}
