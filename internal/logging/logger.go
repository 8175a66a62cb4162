package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LogLevelEnvVar selects the level when no flag is given ("debug", "info",
	// "warn", "error"). Unset means no output at all.
	LogLevelEnvVar = "TODOLIST_LOG_LEVEL"

	// LogFileEnvVar sends output to a file. The TUI owns the terminal, so it
	// needs one.
	LogFileEnvVar = "TODOLIST_LOG_FILE"

	// maxLoggedBody caps how much of a response body LogBody records
	maxLoggedBody = 512
)

// logger is shared by every goroutine; never nil.
var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Initialize is InitializeWithOutput with the default output.
func Initialize(level string) error {
	return InitializeWithOutput(level, "")
}

// InitializeWithOutput installs the global logger. An empty level falls back
// to TODOLIST_LOG_LEVEL and an empty path to TODOLIST_LOG_FILE, then stderr.
// With no level anywhere the logger is a no-op.
func InitializeWithOutput(level string, path string) error {
	level = firstNonEmpty(level, os.Getenv(LogLevelEnvVar))
	if level == "" {
		logger.Store(zap.NewNop())
		return nil
	}
	path = firstNonEmpty(path, os.Getenv(LogFileEnvVar), "stderr")

	l, err := newConfig(ParseLevel(level), path).Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Store(l)
	return nil
}

func newConfig(level zapcore.Level, path string) zap.Config {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if path == "stderr" || path == "stdout" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// ParseLevel maps a level name to a zap level. Unknown names map to info,
// since the caller asked for some output.
func ParseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l < zapcore.DebugLevel || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SetLogger replaces the global logger. Tests use this with zaptest/observer.
// A nil l installs a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// GetLogger returns the global logger, a no-op one before Initialize
func GetLogger() *zap.Logger {
	return logger.Load()
}

func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }

// LogHTTPRequest logs an outgoing request to the collection endpoint
func LogHTTPRequest(method string, url string) {
	Debug("HTTP request",
		zap.String("method", method),
		zap.String("url", url),
	)
}

// LogHTTPResponse logs the outcome of a request to the collection endpoint
func LogHTTPResponse(method string, url string, statusCode int, elapsed time.Duration) {
	Debug("HTTP response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Duration("elapsed", elapsed),
	)
}

// LogActionFailure is the diagnostic channel for failed user actions
// (add, update, delete). The user sees a generic alert; the cause goes here.
func LogActionFailure(action string, err error, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("action", action),
		zap.Error(err),
	}, fields...)
	Error("Action failed", fields...)
}

// LogServerRequest logs a request handled by the local collection server
func LogServerRequest(requestID string, remoteAddr string, method string, path string, status int, elapsed time.Duration) {
	Info("Request handled",
		zap.String("request_id", requestID),
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
}

// LogConnection logs a change-feed connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogBody logs a response body at debug level, truncated to maxLoggedBody bytes
func LogBody(label string, data []byte) {
	if !GetLogger().Core().Enabled(zapcore.DebugLevel) {
		return
	}
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("body", printable(data)),
	)
}

// printable truncates data and replaces control bytes and invalid UTF-8 with '.'
func printable(data []byte) string {
	truncated := len(data) > maxLoggedBody
	if truncated {
		data = data[:maxLoggedBody]
	}

	var b strings.Builder
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError || r < 0x20 || r == 0x7f {
			b.WriteByte('.')
		} else {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	if truncated {
		b.WriteString("...")
	}
	return b.String()
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
