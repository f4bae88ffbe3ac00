// Package logger provides structured logging for xmlgrove
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger wraps zerolog with xmlgrove-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		With().
		Timestamp().
		Str("service", "xmlgrove").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) *zerolog.Event {
	return l.zlog.Warn().Str("msg", msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) *zerolog.Event {
	return l.zlog.Error().Str("msg", msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// BuildLogger returns a logger for document construction
func (l *Logger) BuildLogger() *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "builder").
			Logger(),
	}
}

// QueryLogger returns a logger for query operations
func (l *Logger) QueryLogger(operation string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "query").
			Str("operation", operation).
			Logger(),
	}
}

// LogBuildCompleted logs a finished document build with structured fields
func (l *Logger) LogBuildCompleted(nodes, distinctNames, corpusBytes, attributes int, duration time.Duration) {
	l.zlog.Info().
		Str("component", "builder").
		Int("nodes", nodes).
		Int("distinct_names", distinctNames).
		Int("corpus_bytes", corpusBytes).
		Int("attributes", attributes).
		Dur("duration_ms", duration).
		Msg("Document build completed")
}

// LogBuildFailed logs a rejected event stream
func (l *Logger) LogBuildFailed(err error) {
	l.zlog.Error().
		Str("component", "builder").
		Err(err).
		Msg("Document build failed")
}

// LogQuery logs a query operation with structured fields
func (l *Logger) LogQuery(operation string, resultCount int, duration time.Duration) {
	l.zlog.Debug().
		Str("component", "query").
		Str("operation", operation).
		Int("result_count", resultCount).
		Dur("duration_ms", duration).
		Msg("Query completed")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level: "info",
		})
	}
	return globalLogger
}
