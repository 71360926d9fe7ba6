package logging

import (
	"io"
	"os"
	"strings"

	"forecast-service/config"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a logger writing to out, plus a rotated file when
// cfg.File is set. Format "text" uses the console writer, anything else JSON.
func NewLogger(cfg config.LoggingConfig, out io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
	}

	var logWriter io.Writer
	if cfg.Format == "text" {
		logWriter = zerolog.ConsoleWriter{Out: out}
	} else {
		logWriter = out
	}

	if cfg.File != "" {
		var fileWriter io.Writer = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		if cfg.Format == "text" {
			fileWriter = zerolog.ConsoleWriter{NoColor: true, Out: fileWriter}
		}
		logWriter = io.MultiWriter(logWriter, fileWriter)
	}

	ctx := zerolog.New(logWriter).Level(level).With().Timestamp()
	if cfg.WithCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

// InitLogger replaces the global logger according to cfg
func InitLogger(cfg config.LoggingConfig) error {
	logger, err := NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	log.Logger = logger
	return nil
}
