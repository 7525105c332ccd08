// Package logger provides a simple logging interface for nstake components.
// Packages log debug, info, warn, and error messages without being coupled
// to a specific logging implementation.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
)

// DebugEnv is the environment variable that enables debug output.
const DebugEnv = "NSTAKE_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger writes through a standard library *log.Logger.
// Debug lines are dropped unless NSTAKE_DEBUG is set.
type envLogger struct {
	prefix string
	out    *log.Logger
}

// NewEnvLogger returns a logger on the standard log output. The prefix
// (e.g. "[nstake]") starts every line.
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix, out: log.Default()}
}

// NewWriterLogger is NewEnvLogger writing to w with no timestamp.
func NewWriterLogger(w io.Writer, prefix string) Logger {
	return &envLogger{prefix: prefix, out: log.New(w, "", 0)}
}

// DebugEnabled reports whether NSTAKE_DEBUG is set.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

func (l *envLogger) emit(tag, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch {
	case l.prefix != "" && tag != "":
		l.out.Print(l.prefix + " " + tag + ": " + msg)
	case l.prefix != "":
		l.out.Print(l.prefix + " " + msg)
	case tag != "":
		l.out.Print(tag + ": " + msg)
	default:
		l.out.Print(msg)
	}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.emit("", format, args)
	}
}

func (l *envLogger) Info(format string, args ...interface{})  { l.emit("", format, args) }
func (l *envLogger) Warn(format string, args ...interface{})  { l.emit("WARN", format, args) }
func (l *envLogger) Error(format string, args ...interface{}) { l.emit("ERROR", format, args) }

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// Safe for use from fetch goroutines; read Messages only after they finish.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

func (l *BufferLogger) match(keep func(LogMessage) bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.ContainsFunc(l.Messages, keep)
}

// HasLevel reports whether anything was logged at level.
func (l *BufferLogger) HasLevel(level string) bool {
	return l.match(func(m LogMessage) bool { return m.Level == level })
}

// Contains reports whether a message at level mentions substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	return l.match(func(m LogMessage) bool {
		return m.Level == level && strings.Contains(m.Message, substr)
	})
}
