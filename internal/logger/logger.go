// Package logger wraps zerolog with the process-wide logger used by the service.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger. Init replaces it.
var Logger = log.Logger

type Config struct {
	Level        string `json:"level" yaml:"level"`
	Format       string `json:"format" yaml:"format"` // json or pretty
	TimeFormat   string `json:"time_format" yaml:"time_format"`
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"`
}

// Init configures the global logger. An unknown level falls back to info.
func Init(cfg Config) {
	InitWriter(cfg, os.Stdout)
}

// InitWriter is Init with an explicit output.
func InitWriter(cfg Config, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	output := out
	if cfg.Format == "pretty" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}

	Logger = ctx.Logger()
	log.Logger = Logger
}

func Debug() *zerolog.Event { return Logger.Debug() }
func Info() *zerolog.Event  { return Logger.Info() }
func Warn() *zerolog.Event  { return Logger.Warn() }
func Error() *zerolog.Event { return Logger.Error() }
func Fatal() *zerolog.Event { return Logger.Fatal() }

// Ctx returns the logger stored in ctx, or a disabled logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}
