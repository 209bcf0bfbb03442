package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Environment variables that override config.toml.
const (
	EnvAppKey      = "WEIBO_APP_KEY"
	EnvAppSecret   = "WEIBO_APP_SECRET"
	EnvRedirectURI = "WEIBO_REDIRECT_URI"
	EnvMetricsAddr = "WEIBO_METRICS_ADDR"
	EnvRateLimit   = "WEIBO_RATE_LIMIT"
)

const (
	DefaultRedirectURI    = "https://api.weibo.com/oauth2/default.html"
	DefaultRefreshDelay   = 2 * time.Second
	DefaultUnreadInterval = 30 * time.Second
	DefaultRateLimit      = 2.0
)

// Duration is a time.Duration that reads and writes as a TOML string ("2s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config represents the global ~/.weibo/config.toml.
type Config struct {
	DefaultSession string `toml:"default_session"`

	AppKey      string `toml:"app_key"`
	AppSecret   string `toml:"app_secret"`
	RedirectURI string `toml:"redirect_uri"`

	// RefreshDelay is the pause before each timeline load. A nil value
	// means the default; "0s" disables it.
	RefreshDelay   *Duration `toml:"refresh_delay,omitempty"`
	UnreadInterval Duration  `toml:"unread_interval,omitempty"`
	MetricsAddr    string    `toml:"metrics_addr,omitempty"`
	RateLimit      float64   `toml:"rate_limit,omitempty"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault is Load that treats a missing file as an empty config.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// envOverrides holds the settings the environment may override. Unset or
// empty variables leave the file value alone.
type envOverrides struct {
	AppKey      string  `env:"WEIBO_APP_KEY"`
	AppSecret   string  `env:"WEIBO_APP_SECRET"`
	RedirectURI string  `env:"WEIBO_REDIRECT_URI"`
	MetricsAddr string  `env:"WEIBO_METRICS_ADDR"`
	RateLimit   float64 `env:"WEIBO_RATE_LIMIT"`
}

// ApplyEnv loads dotenv files (missing ones are skipped) and then lets the
// WEIBO_* variables override the matching settings.
func (c *Config) ApplyEnv(dotenvFiles ...string) error {
	var existing []string
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return err
		}
	}

	var env envOverrides
	if err := cleanenv.ReadEnv(&env); err != nil {
		return err
	}
	for _, o := range []struct {
		dst *string
		v   string
	}{
		{&c.AppKey, env.AppKey},
		{&c.AppSecret, env.AppSecret},
		{&c.RedirectURI, env.RedirectURI},
		{&c.MetricsAddr, env.MetricsAddr},
	} {
		if o.v != "" {
			*o.dst = o.v
		}
	}
	if env.RateLimit > 0 {
		c.RateLimit = env.RateLimit
	}
	return nil
}

// Redirect returns the OAuth redirect URI, falling back to the default page.
func (c *Config) Redirect() string {
	if c.RedirectURI != "" {
		return c.RedirectURI
	}
	return DefaultRedirectURI
}

// Delay returns the artificial pause before a timeline load.
func (c *Config) Delay() time.Duration {
	if c.RefreshDelay == nil {
		return DefaultRefreshDelay
	}
	if c.RefreshDelay.Duration < 0 {
		return 0
	}
	return c.RefreshDelay.Duration
}

// PollInterval returns how often the daemon checks the unread count.
func (c *Config) PollInterval() time.Duration {
	if c.UnreadInterval.Duration <= 0 {
		return DefaultUnreadInterval
	}
	return c.UnreadInterval.Duration
}

// RequestRate returns the API requests-per-second budget.
func (c *Config) RequestRate() float64 {
	if c.RateLimit <= 0 {
		return DefaultRateLimit
	}
	return c.RateLimit
}
