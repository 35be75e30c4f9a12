// Package logger provides the shared logging setup for server and client.
package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a zap sugared logger with printf-style methods.
type Logger struct {
	name string
	mu   sync.Mutex
	sl   *zap.SugaredLogger
}

// Named loggers shared across the codebase.
var (
	Server = newLogger("server")
	Client = newLogger("client")
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func newLogger(name string) *Logger {
	return &Logger{name: name, sl: buildConsole(name)}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
}

func buildConsole(name string) *zap.SugaredLogger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(os.Stderr),
		level,
	)
	return zap.New(core, zap.AddCaller()).Named(name).Sugar()
}

// SetLevel sets the global log level from a string (DEBUG, INFO, WARN, ERROR).
func SetLevel(s string) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		level.SetLevel(zapcore.DebugLevel)
	case "WARN":
		level.SetLevel(zapcore.WarnLevel)
	case "ERROR":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// SetFile redirects this logger to a rotating log file, keeping stderr output.
func (l *Logger) SetFile(path string) error {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	enc := encoderConfig()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(lj), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(os.Stderr), level),
	)
	l.mu.Lock()
	l.sl = zap.New(core, zap.AddCaller()).Named(l.name).Sugar()
	l.mu.Unlock()
	return nil
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.sl.Sync()
}

func (l *Logger) logger() *zap.SugaredLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sl
}

func (l *Logger) Debug(format string, args ...interface{}) { l.logger().Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logger().Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logger().Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logger().Errorf(format, args...) }
func (l *Logger) Fatal(format string, args ...interface{}) { l.logger().Fatalf(format, args...) }
