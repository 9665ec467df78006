package logutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dfryer1193/agenda/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger from cfg.
func Setup(cfg config.LoggingConfig) error {
	logger, err := New(cfg, os.Stderr)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(logger.GetLevel())
	log.Logger = logger
	return nil
}

// New builds a logger writing to w in the configured format and level.
func New(cfg config.LoggingConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown logging.format: %s", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown logging.level: %s", s)
	}
	return level, nil
}
