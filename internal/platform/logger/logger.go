package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yungbote/lore-backend/internal/platform/envutil"
)

// Logger is a key/value logger over zap. Its method set also satisfies the
// Temporal SDK's log.Logger, so the same value is handed to the worker.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	redactor      *redactor
}

// New builds a logger for mode ("development", "production", or "test"/"nop"
// for a silent one). LOG_LEVEL, LOG_REDACTION_ENABLED and LOG_HASH_SALT are
// read from the environment.
func New(mode string) (*Logger, error) {
	red := &redactor{
		enabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
		salt:    envutil.String("LOG_HASH_SALT", ""),
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		return &Logger{SugaredLogger: zap.NewNop().Sugar(), redactor: red}, nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(envutil.String("LOG_LEVEL", ""), zap.InfoLevel))
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(envutil.String("LOG_LEVEL", ""), zap.DebugLevel))
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar(), redactor: red}, nil
}

// NewWithCore wraps an existing zap core; used by tests that observe output.
func NewWithCore(core zapcore.Core, redact bool) *Logger {
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
		redactor:      &redactor{enabled: redact},
	}
}

func parseLevel(raw string, def zapcore.Level) zapcore.Level {
	if raw == "" {
		return def
	}
	lvl, err := zapcore.ParseLevel(raw)
	if err != nil {
		return def
	}
	return lvl
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.redactor.apply(keyvals)...)
}

func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.SugaredLogger.Infow(msg, l.redactor.apply(keyvals)...)
}

func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.redactor.apply(keyvals)...)
}

func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.redactor.apply(keyvals)...)
}

func (l *Logger) Fatal(msg string, keyvals ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.redactor.apply(keyvals)...)
}

func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(l.redactor.apply(keyvals)...),
		redactor:      l.redactor,
	}
}
