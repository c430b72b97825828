// Package logger provides structured JSON logging and run metrics for whatson.
//
// Log lines are single JSON objects with a timestamp, level, message and optional
// structured fields, written to stderr by default so that stdout only carries the
// scrape results.
//
// Example usage:
//
//	log := logger.New(logger.LevelInfo, os.Stderr).With(logger.Fields{"theatre": "belgrade"})
//	log.Info("theatre scraped", logger.Fields{"shows": 64})
//	log.Error("theatre failed", nil, err)
//
//	metrics := logger.NewMetrics()
//	metrics.IncrCounter("venues.failed")
//	metrics.RecordTiming("venue.scrape", duration)
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a level name such as "debug" or "WARN" into a Level
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", s)
	}
	return level, nil
}

// Logger provides structured logging
type Logger struct {
	mu       *sync.Mutex
	minLevel Level
	output   io.Writer
	fields   Fields
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var defaultLogger = New(LevelInfo, os.Stderr)

// New creates a new logger with the specified minimum log level and output destination.
// Messages below the minimum level will be discarded.
func New(level Level, output io.Writer) *Logger {
	return &Logger{
		mu:       &sync.Mutex{},
		minLevel: level,
		output:   output,
	}
}

// SetDefault sets the logger used by the package-level functions.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the logger used by the package-level functions.
func Default() *Logger {
	return defaultLogger
}

// With returns a logger that adds fields to every entry. Fields passed to a
// logging call take precedence.
func (l *Logger) With(fields Fields) *Logger {
	return &Logger{mu: l.mu, minLevel: l.minLevel, output: l.output, fields: l.merge(fields)}
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    l.merge(fields),
	}

	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if marshalErr != nil {
		// Fallback to plain text if JSON marshal fails
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}

	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) merge(fields Fields) Fields {
	if len(l.fields) == 0 && len(fields) == 0 {
		return nil
	}
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

func (l *Logger) shouldLog(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs detailed diagnostic information.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs general operational information.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a problem that does not stop the run.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure together with its error.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}
