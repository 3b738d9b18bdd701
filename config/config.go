package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
)

const (
	DefaultUserAgent      = "walacor-go"
	DefaultLoginTimeout   = 5 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	logFileName           = "sdk.log"
)

// Config holds the connection settings shared by the transport and services.
type Config struct {
	BaseURL  string `json:"server" yaml:"server" validate:"required,url"`
	Username string `json:"username" yaml:"username" validate:"required"`
	Password string `json:"-" yaml:"password" validate:"required"`

	LoginTimeout   time.Duration    `json:"login_timeout,omitempty" yaml:"login_timeout,omitempty" validate:"gte=0"`
	RequestTimeout time.Duration    `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" validate:"gte=0"`
	UserAgent      string           `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	ExtraHeaders   dto.ExtraHeaders `json:"extra_headers,omitempty" yaml:"extra_headers,omitempty"`

	// DownloadDir default folder for file downloads, see DefaultDownloadDir
	DownloadDir              string        `json:"download_dir,omitempty" yaml:"download_dir,omitempty"`
	DownloadCallbackInterval time.Duration `json:"download_callback_interval,omitempty" yaml:"download_callback_interval,omitempty" validate:"gte=0"`

	// RateLimit requests per second, zero disables client side limiting
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty" validate:"gte=0"`
	RateBurst int     `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty" validate:"gte=0"`

	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error fatal TRACE DEBUG INFO WARN ERROR FATAL"`
	LogDir     string `json:"log_dir,omitempty" yaml:"log_dir,omitempty"`
	LogConsole bool   `json:"log_console,omitempty" yaml:"log_console,omitempty"`

	relay relayDTO.RelayInterface
}

func DefaultConfig() Config {
	return Config{
		LoginTimeout:             DefaultLoginTimeout,
		RequestTimeout:           DefaultRequestTimeout,
		UserAgent:                DefaultUserAgent,
		ExtraHeaders:             make(dto.ExtraHeaders),
		DownloadCallbackInterval: 2 * time.Second,
		RateBurst:                1,
		LogLevel:                 "info",
	}
}

// New is DefaultConfig with the three required settings applied.
func New(server, username, password string) *Config {
	cfg := DefaultConfig()
	return cfg.WithBaseURL(server).WithCredentials(username, password)
}

func (c *Config) WithBaseURL(server string) *Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(server), "/")
	return c
}

func (c *Config) WithCredentials(username, password string) *Config {
	c.Username = username
	c.Password = password
	return c
}

func (c *Config) WithRequestTimeout(d time.Duration) *Config {
	c.RequestTimeout = d
	return c
}

func (c *Config) WithLoginTimeout(d time.Duration) *Config {
	c.LoginTimeout = d
	return c
}

func (c *Config) WithUserAgent(ua string) *Config {
	c.UserAgent = ua
	return c
}

func (c *Config) WithExtraHeaders(headers map[string]string) *Config {
	if c.ExtraHeaders == nil {
		c.ExtraHeaders = make(dto.ExtraHeaders, len(headers))
	}
	for k, v := range headers {
		c.ExtraHeaders[k] = v
	}
	return c
}

func (c *Config) WithDownloadDir(dir string) *Config {
	c.DownloadDir = dir
	return c
}

func (c *Config) WithDownloadCallbackInterval(d time.Duration) *Config {
	c.DownloadCallbackInterval = d
	return c
}

func (c *Config) WithRateLimit(perSecond float64, burst int) *Config {
	c.RateLimit = perSecond
	c.RateBurst = burst
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

func (c *Config) WithRelay(relay relayDTO.RelayInterface) *Config {
	c.relay = relay
	return c
}

// Relay returns the configured relay, building a zerolog one from the log
// settings on first use.
func (c *Config) Relay() relayDTO.RelayInterface {
	if c.relay != nil {
		return c.relay
	}
	var out io.Writer = os.Stderr
	if c.LogDir != "" {
		if f, err := openLogFile(c.LogDir); err == nil {
			out = io.MultiWriter(os.Stderr, f)
		} else {
			fmt.Fprintf(os.Stderr, "walacor: log file disabled: %v\n", err)
		}
	}
	c.relay = relays.NewZerologRelay(out, c.LogLevel, c.LogConsole)
	return c.relay
}

// Clone returns a copy safe to mutate. The relay is shared.
func (c *Config) Clone() *Config {
	cpy := *c
	cpy.ExtraHeaders = make(dto.ExtraHeaders, len(c.ExtraHeaders))
	for k, v := range c.ExtraHeaders {
		cpy.ExtraHeaders[k] = v
	}
	return &cpy
}

// DefaultDownloadDir is $XDG_DOWNLOAD_DIR/walacor or ~/Downloads/walacor.
func DefaultDownloadDir() string {
	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return filepath.Join(dir, "walacor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "walacor")
	}
	return filepath.Join(home, "Downloads", "walacor")
}

func openLogFile(dir string) (*os.File, error) {
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = strings.Replace(dir, "~", home, 1)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
