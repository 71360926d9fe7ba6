package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"forecast-service/api"
	"forecast-service/config"
	"forecast-service/datasource"
	"forecast-service/forecast"
	"forecast-service/logging"
	"forecast-service/providers/accuweather"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "weather-service",
	Short:        "Serves five day AccuWeather forecasts for free-text locations",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.String("config", "", "Path to configuration file")
	flags.Int(config.KeyPort, 5000, "Port to run the server on")
	flags.String(config.KeyDefaultCity, "Cleveland", "City used when no location is given")
	flags.String(config.KeyBaseURL, accuweather.DefaultBaseURL, "AccuWeather API base URL")
	flags.Duration(config.KeyTimeout, accuweather.DefaultTimeout, "Timeout for each AccuWeather call")
	flags.Float64(config.KeyRateLimit, 1.0, "AccuWeather requests per second (0 disables rate limiting)")
	flags.Int(config.KeyBurst, 5, "AccuWeather request burst size")
	flags.String(config.KeyLogLevel, "info", "Log level (trace, debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "text", "Log format (text, json)")
	flags.String(config.KeyLogFile, "", "Also write logs to this rotated file")
	flags.Bool(config.KeyWithCaller, false, "Log caller file and line")
}

func run(cmd *cobra.Command, args []string) error {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	v := viper.New()
	flags := cmd.Flags()
	for _, key := range []string{
		config.KeyPort, config.KeyDefaultCity,
		config.KeyBaseURL, config.KeyTimeout, config.KeyRateLimit, config.KeyBurst,
		config.KeyLogLevel, config.KeyLogFormat, config.KeyLogFile, config.KeyWithCaller,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", key)
		}
	}

	configFile, _ := flags.GetString("config")
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	if err := logging.InitLogger(cfg.Logging); err != nil {
		return err
	}

	provider := accuweather.NewProvider(cfg.AccuWeather.APIKey,
		accuweather.WithBaseURL(cfg.AccuWeather.BaseURL),
		accuweather.WithTimeout(cfg.AccuWeather.Timeout),
		accuweather.WithLogger(log.Logger.With().Str("provider", "accuweather").Logger()),
	)

	var locations datasource.LocationSource = provider
	var forecasts datasource.ForecastSource = provider
	if cfg.AccuWeather.RateLimit > 0 {
		// Both APIs draw from the same key quota, so each gets half the rate
		perAPI := cfg.AccuWeather.RateLimit / 2
		locations = datasource.NewRateLimitedLocationSource(provider, perAPI, cfg.AccuWeather.Burst)
		forecasts = datasource.NewRateLimitedForecastSource(provider, perAPI, cfg.AccuWeather.Burst)
		log.Info().Float64("rps", cfg.AccuWeather.RateLimit).Int("burst", cfg.AccuWeather.Burst).
			Msg("Applied rate limiting to AccuWeather provider")
	}

	orchestrator := forecast.NewOrchestrator(locations, forecasts, log.Logger)
	server := api.NewServer(orchestrator, cfg.DefaultCity, cfg.Port, log.Logger)

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-shutdownChan:
		log.Info().Str("signal", strings.ToUpper(sig.String())).Msg("Shutting down")
	case err := <-serverErr:
		if err != nil {
			return errors.Wrap(err, "server stopped")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("Shutdown complete")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
