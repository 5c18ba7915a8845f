package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// thin wrapper around zap so the rest of the code doesn't import zap directly

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option

	Logger struct {
		l     *zap.Logger
		level zap.AtomicLevel
	}
)

const (
	DebugLevel = zap.DebugLevel
	InfoLevel  = zap.InfoLevel
	WarnLevel  = zap.WarnLevel
	ErrorLevel = zap.ErrorLevel
	FatalLevel = zap.FatalLevel
)

var (
	Skip       = zap.Skip
	Binary     = zap.Binary
	Bool       = zap.Bool
	Duration   = zap.Duration
	Float64    = zap.Float64
	Int        = zap.Int
	Int32      = zap.Int32
	Int64      = zap.Int64
	Uint32     = zap.Uint32
	String     = zap.String
	Time       = zap.Time
	Any        = zap.Any
	ErrorField = zap.Error

	WithCaller    = zap.WithCaller
	AddStacktrace = zap.AddStacktrace
	AddCallerSkip = zap.AddCallerSkip
)

func ParseLevel(text string) (Level, error) {
	var l zapcore.Level
	err := l.UnmarshalText([]byte(text))
	return l, err
}

// New creates a logger with JSON output, suited for production use.
func New(writer io.Writer, level Level, opts ...Option) *Logger {
	return newLogger(writer, level,
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), opts...)
}

// DevLogger creates a logger with human readable console output.
func DevLogger(writer io.Writer, level Level, opts ...Option) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	return newLogger(writer, level, zapcore.NewConsoleEncoder(cfg), opts...)
}

func newLogger(writer io.Writer, level Level, enc zapcore.Encoder, opts ...Option) *Logger {
	if writer == nil {
		panic("the writer is nil")
	}
	atomicLevel := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(enc, zapcore.AddSync(writer), atomicLevel)
	return &Logger{
		l:     zap.New(core, opts...),
		level: atomicLevel,
	}
}

// WithFilterRules returns a logger whose output is restricted by
// zapfilter rules (for example "debug:db.* info:*").
func (l *Logger) WithFilterRules(rules string) (*Logger, error) {
	filter, err := zapfilter.ParseRules(rules)
	if err != nil {
		return nil, fmt.Errorf("invalid filter rules: %w", err)
	}
	return &Logger{
		l: zap.New(zapfilter.NewFilteringCore(l.l.Core(), filter),
			zap.WithCaller(true)),
		level: l.level,
	}, nil
}

func (l *Logger) Named(s string) *Logger {
	return &Logger{l: l.l.Named(s), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) SetLevel(level Level)        { l.level.SetLevel(level) }
func (l *Logger) Level() Level                { return l.level.Level() }
func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }
func (l *Logger) Sync() error                 { return l.l.Sync() }

func (l *Logger) ZapLogger() *zap.Logger { return l.l }

var (
	std  = DevLogger(os.Stderr, InfoLevel)
	mu   sync.Mutex
	Info func(msg string, fields ...Field)
	Warn func(msg string, fields ...Field)

	Debug func(msg string, fields ...Field)
	Error func(msg string, fields ...Field)
	Fatal func(msg string, fields ...Field)
)

func init() {
	bindDefault()
}

func Default() *Logger { return std }

// ResetDefault replaces the package level default logger.
// Not safe for concurrent use.
func ResetDefault(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	std = l
	bindDefault()
}

func bindDefault() {
	Info = std.Info
	Warn = std.Warn
	Debug = std.Debug
	Error = std.Error
	Fatal = std.Fatal
}

func Sync() error {
	if std != nil {
		return std.Sync()
	}
	return nil
}

// GetLoggerManager style helper: returns a named child of the default logger.
func GetLogger(name string) *Logger {
	return std.Named(name)
}
