package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel parses a log level string.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// zapLevel maps a LogLevel onto zap. LogLevelOff has no zap equivalent and is
// handled by the caller.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelOff, LogLevelError:
		return zap.ErrorLevel
	default:
		return zap.ErrorLevel
	}
}

// Logger wraps a zap logger writing to the configured log file.
type Logger struct {
	mu    sync.Mutex
	level LogLevel
	atom  zap.AtomicLevel
	zl    *zap.Logger
	file  *os.File
}

// NewLogger creates a new logger. encoding is "json" or "console".
func NewLogger(level LogLevel, filePath, encoding string) (*Logger, error) {
	if level == LogLevelOff || filePath == "" {
		return NullLogger(), nil
	}

	filePath = ExpandHome(filePath)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	logger := newZapLogger(level, zapcore.AddSync(f), encoding)
	logger.file = f
	return logger, nil
}

// newZapLogger builds the zap core the same way for files and test buffers.
func newZapLogger(level LogLevel, sink zapcore.WriteSyncer, encoding string) *Logger {
	atom := zap.NewAtomicLevelAt(level.zapLevel())

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	zl := zap.New(zapcore.NewCore(encoder, zapcore.Lock(sink), atom), zap.AddCaller())

	return &Logger{
		level: level,
		atom:  atom,
		zl:    zl,
	}
}

// NewWriterLogger creates a logger that writes JSON lines to sink.
func NewWriterLogger(level LogLevel, sink zapcore.WriteSyncer) *Logger {
	if level == LogLevelOff {
		return NullLogger()
	}
	return newZapLogger(level, sink, "json")
}

// Zap returns the underlying structured logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

// Named returns a structured logger scoped to a component.
func (l *Logger) Named(name string) *zap.Logger {
	return l.zl.Named(name)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.zl.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// SetLevel changes the log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.atom.SetLevel(level.zapLevel())
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.zl.Sugar().Debugf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.zl.Sugar().Errorf(format, args...)
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{
		level: LogLevelOff,
		atom:  zap.NewAtomicLevelAt(zap.FatalLevel),
		zl:    zap.NewNop(),
	}
}
