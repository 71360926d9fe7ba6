package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnvKey(t *testing.T) {
	t.Setenv("WEATHER_ACCUWEATHER_API_KEY", "from-env")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "Cleveland", cfg.DefaultCity)
	assert.Equal(t, "from-env", cfg.AccuWeather.APIKey)
	assert.Equal(t, "http://dataservice.accuweather.com", cfg.AccuWeather.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.AccuWeather.Timeout)
	assert.Equal(t, 1.0, cfg.AccuWeather.RateLimit)
	assert.Equal(t, 5, cfg.AccuWeather.Burst)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadLegacyEnvKey(t *testing.T) {
	t.Setenv("ACCUWEATHER_API_KEY", "legacy")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.AccuWeather.APIKey)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8081
default-city: Columbus
accuweather:
  api-key: from-file
  base-url: https://example.test/
  timeout: 3s
  rate-limit: 0
log-level: debug
`), 0o600))

	t.Setenv("WEATHER_DEFAULT_CITY", "Akron")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "Akron", cfg.DefaultCity, "environment overrides the file")
	assert.Equal(t, "from-file", cfg.AccuWeather.APIKey)
	assert.Equal(t, "https://example.test", cfg.AccuWeather.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.AccuWeather.Timeout)
	assert.Zero(t, cfg.AccuWeather.RateLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingConfigFileFails(t *testing.T) {
	t.Setenv("WEATHER_ACCUWEATHER_API_KEY", "k")

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:        5000,
			DefaultCity: "Cleveland",
			AccuWeather: AccuWeatherConfig{
				APIKey:    "k",
				BaseURL:   "http://dataservice.accuweather.com",
				Timeout:   time.Second,
				RateLimit: 1,
				Burst:     1,
			},
		}
	}
	require.NoError(t, valid().Validate())

	for name, mutate := range map[string]func(*Config){
		"no api key":   func(c *Config) { c.AccuWeather.APIKey = " " },
		"bad port":     func(c *Config) { c.Port = 70000 },
		"bad scheme":   func(c *Config) { c.AccuWeather.BaseURL = "ftp://example.test" },
		"no host":      func(c *Config) { c.AccuWeather.BaseURL = "http://" },
		"zero timeout": func(c *Config) { c.AccuWeather.Timeout = 0 },
		"zero burst":   func(c *Config) { c.AccuWeather.Burst = 0 },
		"negative rps": func(c *Config) { c.AccuWeather.RateLimit = -1 },
	} {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
