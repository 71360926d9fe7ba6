// Package config loads service settings from flags, environment, and an
// optional config file.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	KeyPort        = "port"
	KeyDefaultCity = "default-city"

	KeyAPIKey    = "accuweather.api-key"
	KeyBaseURL   = "accuweather.base-url"
	KeyTimeout   = "accuweather.timeout"
	KeyRateLimit = "accuweather.rate-limit"
	KeyBurst     = "accuweather.burst"

	KeyLogLevel   = "log-level"
	KeyLogFormat  = "log-format"
	KeyLogFile    = "log-file"
	KeyWithCaller = "with-caller"

	envPrefix = "WEATHER"
)

// Config represents the application configuration
type Config struct {
	Port        int
	DefaultCity string
	AccuWeather AccuWeatherConfig
	Logging     LoggingConfig
}

// AccuWeatherConfig configures the upstream provider
type AccuWeatherConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
}

// LoggingConfig configures the global logger
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	WithCaller bool
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPort, 5000)
	v.SetDefault(KeyDefaultCity, "Cleveland")
	v.SetDefault(KeyBaseURL, "http://dataservice.accuweather.com")
	v.SetDefault(KeyTimeout, 10*time.Second)
	// the free tier is tight on quota, keep bursts small
	v.SetDefault(KeyRateLimit, 1.0)
	v.SetDefault(KeyBurst, 5)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyWithCaller, false)
}

// Load reads configuration into a Config. configFile may be empty, in which
// case weather.{yaml,json,toml} is looked up in the usual places and a
// missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyAPIKey, envPrefix+"_ACCUWEATHER_API_KEY", "ACCUWEATHER_API_KEY"); err != nil {
		return nil, errors.Wrap(err, "failed to bind API key environment")
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("weather")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.weather-service")
		v.AddConfigPath("/etc/weather-service")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{
		Port:        v.GetInt(KeyPort),
		DefaultCity: v.GetString(KeyDefaultCity),
		AccuWeather: AccuWeatherConfig{
			APIKey:    v.GetString(KeyAPIKey),
			BaseURL:   strings.TrimRight(v.GetString(KeyBaseURL), "/"),
			Timeout:   v.GetDuration(KeyTimeout),
			RateLimit: v.GetFloat64(KeyRateLimit),
			Burst:     v.GetInt(KeyBurst),
		},
		Logging: LoggingConfig{
			Level:      v.GetString(KeyLogLevel),
			Format:     v.GetString(KeyLogFormat),
			File:       v.GetString(KeyLogFile),
			WithCaller: v.GetBool(KeyWithCaller),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can run the service
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	if strings.TrimSpace(c.AccuWeather.APIKey) == "" {
		return errors.New("no AccuWeather API key provided")
	}
	if c.AccuWeather.Timeout <= 0 {
		return errors.Errorf("invalid AccuWeather timeout %s", c.AccuWeather.Timeout)
	}
	if c.AccuWeather.RateLimit < 0 {
		return errors.Errorf("invalid AccuWeather rate limit %v", c.AccuWeather.RateLimit)
	}
	if c.AccuWeather.RateLimit > 0 && c.AccuWeather.Burst < 1 {
		return errors.Errorf("invalid AccuWeather burst %d", c.AccuWeather.Burst)
	}

	u, err := url.Parse(c.AccuWeather.BaseURL)
	if err != nil {
		return errors.Wrap(err, "invalid AccuWeather base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("unsupported AccuWeather base URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("AccuWeather base URL host is required")
	}

	return nil
}
