// Package logger provides structured logging and metrics tracking for the RU menu bot.
//
// Logging is backed by apex/log. Entries are written as JSON by default (one
// object per line, easy to grep in container logs) or as colored text for
// interactive use. The level is taken from RU_MENU_LOG or set explicitly.
//
// Example usage:
//
//	logger.Info("Menu fetched", logger.Fields{
//	    "date":  "2026-10-19",
//	    "bytes": 2048,
//	})
//
//	logger.Error("Fetch failed", logger.Fields{"attempt": 3}, err)
//
//	logger.IncrCounter("cache.miss")
//	logger.RecordTiming("scraper.fetch", duration)
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	texthandler "github.com/apex/log/handlers/text"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects the output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	base *log.Logger
}

var defaultLogger = New(levelFromEnv(), FormatJSON, os.Stdout)

// New creates a logger writing entries at or above level to output.
func New(level Level, format Format, output io.Writer) *Logger {
	var handler log.Handler
	if format == FormatText {
		handler = texthandler.New(output)
	} else {
		handler = jsonhandler.New(output)
	}

	return &Logger{
		base: &log.Logger{
			Handler: handler,
			Level:   apexLevel(level),
		},
	}
}

// SetDefault replaces the logger used by the package-level functions
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// ParseLevel converts a user-supplied level name, falling back to INFO
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelWarn, "WARNING":
		return LevelWarn
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

func levelFromEnv() Level {
	return ParseLevel(os.Getenv("RU_MENU_LOG"))
}

func apexLevel(level Level) log.Level {
	switch level {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func (l *Logger) entry(fields Fields, err error) *log.Entry {
	e := l.base.WithFields(log.Fields(fields))
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

// Debug logs a debug message with optional structured fields
func (l *Logger) Debug(message string, fields Fields) {
	l.entry(fields, nil).Debug(message)
}

// Info logs an informational message with optional structured fields
func (l *Logger) Info(message string, fields Fields) {
	l.entry(fields, nil).Info(message)
}

// Warn logs a warning message with optional structured fields.
// Warnings indicate problems that did not stop the operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.entry(fields, nil).Warn(message)
}

// Error logs an error message with optional structured fields and the error
func (l *Logger) Error(message string, fields Fields, err error) {
	l.entry(fields, err).Error(message)
}

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
