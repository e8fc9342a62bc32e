// Package config reads the TOML service configuration.
package config

import (
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
)

const (
	DefaultListen            = "127.0.0.1:8080"
	DefaultFallbackTimeout   = 5 * time.Second
	DefaultRateLimitInterval = 100 * time.Millisecond
	DefaultRateLimitBurst    = 10
	DefaultKeyCacheSize      = 1024
	DefaultKeyCacheTTL       = 5 * time.Minute
)

type duration struct {
	time.Duration
}

func (dur *duration) UnmarshalText(text []byte) (err error) {
	dur.Duration, err = time.ParseDuration(string(text))
	return
}

type FallbackConfig struct {
	URL               string   `toml:"url"`
	Timeout           duration `toml:"timeout"`
	RateLimitInterval duration `toml:"rate_limit_interval"`
	RateLimitBurst    int      `toml:"rate_limit_burst"`
}

type KeyCacheConfig struct {
	Size int      `toml:"size"`
	TTL  duration `toml:"ttl"`
}

type Config struct {
	Listen      string         `toml:"listen"`
	DatabaseURI string         `toml:"database_uri"`
	RedisURI    string         `toml:"redis_uri"`
	GeoIPPath   string         `toml:"geoip_path"`
	Fallback    FallbackConfig `toml:"fallback"`
	KeyCache    KeyCacheConfig `toml:"key_cache"`
}

func (c *Config) FallbackTimeout() time.Duration {
	if c.Fallback.Timeout.Duration > 0 {
		return c.Fallback.Timeout.Duration
	}

	return DefaultFallbackTimeout
}

func (c *Config) FallbackRateLimitInterval() time.Duration {
	if c.Fallback.RateLimitInterval.Duration > 0 {
		return c.Fallback.RateLimitInterval.Duration
	}

	return DefaultRateLimitInterval
}

func (c *Config) FallbackRateLimitBurst() int {
	if c.Fallback.RateLimitBurst > 0 {
		return c.Fallback.RateLimitBurst
	}

	return DefaultRateLimitBurst
}

func (c *Config) KeyCacheSize() int {
	if c.KeyCache.Size > 0 {
		return c.KeyCache.Size
	}

	return DefaultKeyCacheSize
}

func (c *Config) KeyCacheTTL() time.Duration {
	if c.KeyCache.TTL.Duration > 0 {
		return c.KeyCache.TTL.Duration
	}

	return DefaultKeyCacheTTL
}

func Parse(source io.Reader) (*Config, error) {
	conf := &Config{Listen: DefaultListen}

	buf, err := io.ReadAll(source)
	if err != nil {
		return nil, errors.Annotate(err, "Cannot read config file")
	}

	if _, err := toml.Decode(string(buf), conf); err != nil {
		return nil, errors.Annotate(err, "Cannot parse config file")
	}

	if err = validate(conf); err != nil {
		return nil, errors.Annotate(err, "Invalid value")
	}

	return conf, nil
}

func validate(conf *Config) error {
	if conf.Listen == "" {
		return errors.New("Listen address cannot be empty")
	}

	if conf.DatabaseURI == "" {
		return errors.New("Database URI cannot be empty")
	}

	if conf.RedisURI == "" {
		return errors.New("Redis URI cannot be empty")
	}

	if conf.Fallback.RateLimitBurst < 0 {
		return errors.Errorf("Incorrect rate limit burst %d",
			conf.Fallback.RateLimitBurst)
	}

	return nil
}
