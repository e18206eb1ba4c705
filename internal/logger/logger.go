// Package logger provides leveled, structured logging for ugl-courses.
//
// Output goes through charmbracelet/log, either as colored text for a
// terminal or as one JSON object per line. Structured fields are passed
// as a Fields map:
//
//	logger.Info("Source fetched", logger.Fields{
//	    "source": "uglkurser",
//	    "rows":   42,
//	})
//
//	logger.Error("Export failed", logger.Fields{"request_id": id}, err)
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects how entries are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) charm() charmlog.Level {
	switch l {
	case LevelDebug:
		return charmlog.DebugLevel
	case LevelWarn:
		return charmlog.WarnLevel
	case LevelError:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Logger provides structured logging
type Logger struct {
	charm *charmlog.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

// keyvals flattens fields into sorted key/value pairs.
func (f Fields) keyvals() []interface{} {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, f[k])
	}
	return out
}

var defaultLogger *Logger

func init() {
	defaultLogger = New(LevelInfo, os.Stderr, FormatText)
}

// New creates a logger writing to output. Messages below level are discarded.
func New(level Level, output io.Writer, format Format) *Logger {
	charm := charmlog.NewWithOptions(output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02T15:04:05Z07:00",
		Level:           level.charm(),
	})
	if format == FormatJSON {
		charm.SetFormatter(charmlog.JSONFormatter)
	} else {
		charm.SetFormatter(charmlog.TextFormatter)
	}
	return &Logger{charm: charm}
}

// SetDefault sets the logger used by the package-level functions.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	kv := fields.keyvals()
	if err != nil {
		kv = append(kv, "error", err.Error())
	}

	switch level {
	case LevelDebug:
		l.charm.Debug(message, kv...)
	case LevelWarn:
		l.charm.Warn(message, kv...)
	case LevelError:
		l.charm.Error(message, kv...)
	default:
		l.charm.Info(message, kv...)
	}
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
// Pass a non-nil err to attach it as the "error" field.
func (l *Logger) Warn(message string, fields Fields, err error) {
	l.log(LevelWarn, message, fields, err)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields, err error) {
	defaultLogger.Warn(message, fields, err)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}
