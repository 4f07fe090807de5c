// Package log is the structured logger shared by the CLI, the terminal UI
// and the development gateway.
package log

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging contract used across frota.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(err error, msg string, keysAndValues ...any)

	// WithName returns a logger with name appended to the logger name.
	WithName(name string) Logger
	// WithValues returns a logger that always adds keysAndValues.
	WithValues(keysAndValues ...any) Logger

	// Sync flushes buffered entries.
	Sync() error
}

var _ Logger = (*zapLogger)(nil)

type zapLogger struct {
	core *zap.Logger
}

// New builds a zap backed Logger from opts.
func New(opts *Options) (Logger, error) {
	if opts == nil {
		opts = NewOptions()
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "timestamp",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	if opts.Format == "console" && opts.EnableColor {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	for _, p := range outputs {
		if p == "stdout" || p == "stderr" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("log: ensure directory for %s: %w", p, err)
		}
	}

	cfg := &zap.Config{
		DisableCaller:    opts.DisableCaller,
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         opts.Format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	core, err := cfg.Build(zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("log: build zap logger: %w", err)
	}
	if opts.Name != "" {
		core = core.Named(opts.Name)
	}
	return &zapLogger{core: core}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() Logger {
	return &zapLogger{core: zap.NewNop()}
}

func (z *zapLogger) Debug(msg string, keysAndValues ...any) {
	z.core.Debug(msg, toFields(keysAndValues...)...)
}

func (z *zapLogger) Info(msg string, keysAndValues ...any) {
	z.core.Info(msg, toFields(keysAndValues...)...)
}

func (z *zapLogger) Warn(msg string, keysAndValues ...any) {
	z.core.Warn(msg, toFields(keysAndValues...)...)
}

func (z *zapLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := toFields(keysAndValues...)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	z.core.Error(msg, fields...)
}

func (z *zapLogger) WithName(name string) Logger {
	return &zapLogger{core: z.core.Named(name)}
}

func (z *zapLogger) WithValues(keysAndValues ...any) Logger {
	return &zapLogger{core: z.core.With(toFields(keysAndValues...)...)}
}

func (z *zapLogger) Sync() error {
	return z.core.Sync()
}

// toFields turns alternating key/value arguments into zap fields. Errors
// and ready-made zap.Fields are accepted in any position.
func toFields(args ...any) []zap.Field {
	if len(args) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		switch v := args[i].(type) {
		case zap.Field:
			fields = append(fields, v)
			i++
			continue
		case error:
			fields = append(fields, zap.Error(v))
			i++
			continue
		}

		if i == len(args)-1 {
			fields = append(fields, zap.Any(fmt.Sprintf("arg#%d", i), args[i]))
			break
		}

		key, val := args[i], args[i+1]
		i += 2
		name, ok := key.(string)
		if !ok {
			name = fmt.Sprintf("%v", key)
		}
		fields = append(fields, zap.Any(name, val))
	}
	return fields
}
