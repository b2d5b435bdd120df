package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Level      string
	TimeFormat string
	Output     io.Writer
	Pretty     bool
}

// Logger wraps zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New creates a logger. An unknown level falls back to info.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = &Config{Level: "info", Pretty: true}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: cfg.TimeFormat}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
	return &Logger{zl: zl}
}

// Zerolog exposes the underlying logger for packages that take a
// *zerolog.Logger directly.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// WithFields returns a child logger with extra fields attached.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Error(err error, msg string, fields ...interface{}) {
	l.zl.Error().Err(err).Fields(fields).Msg(msg)
}

func (l *Logger) Fatal(err error, msg string, fields ...interface{}) {
	l.zl.Fatal().Err(err).Fields(fields).Msg(msg)
}
