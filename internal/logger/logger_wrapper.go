package logger

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/leandrodaf/midikeys/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrMissingLogFile is returned when FileLog is requested without a path.
var ErrMissingLogFile = errors.New("file destination requires a path")

// ZapLogger é uma implementação do contrato de Logger que usa o logger do Uber.
// Writes hold mu for reading, so swapping the sink waits for them before the
// old sink is closed.
type ZapLogger struct {
	mu     sync.RWMutex
	logger *zap.Logger
	closer func()
	level  zap.AtomicLevel
}

// NewZapLogger cria um novo logger do Uber que escreve em stderr.
func NewZapLogger() contracts.Logger {
	z := &ZapLogger{level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
	z.swap(zapcore.Lock(os.Stderr), nil)
	return z
}

// NewWithCore wraps an existing zap core. The core still applies its own level,
// SetLevel filters on top of it.
func NewWithCore(core zapcore.Core) *ZapLogger {
	z := &ZapLogger{level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
	z.logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	return z
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
}

// Field returns a new instance of Field
func (z *ZapLogger) Field() contracts.Field {
	return &zapField{}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(zapcore.Level(level))
}

// SetDestination redirects output to standard error or to a file.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) error {
	switch dest {
	case contracts.ConsoleLog:
		z.swap(zapcore.Lock(os.Stderr), nil)
		return nil
	case contracts.FileLog:
		if len(filePath) == 0 || filePath[0] == "" {
			return ErrMissingLogFile
		}
		sink, closeSink, err := zap.Open(filePath[0])
		if err != nil {
			return fmt.Errorf("open log file %s: %w", filePath[0], err)
		}
		z.swap(sink, closeSink)
		return nil
	default:
		return fmt.Errorf("unknown log destination %q", dest)
	}
}

// Sync flushes any buffered log entries.
func (z *ZapLogger) Sync() error {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.logger.Sync()
}

func (z *ZapLogger) swap(sink zapcore.WriteSyncer, closeSink func()) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, z.level)

	z.mu.Lock()
	defer z.mu.Unlock()

	if z.logger != nil {
		_ = z.logger.Sync()
	}
	if z.closer != nil {
		z.closer()
	}
	z.logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))
	z.closer = closeSink
}

// log é a função interna para registrar mensagens
func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	if !z.level.Enabled(level) {
		return
	}

	zapFields := toZapFields(fields...)

	z.mu.RLock()
	defer z.mu.RUnlock()
	logger := z.logger

	switch level {
	case zapcore.DebugLevel:
		logger.Debug(msg, zapFields...)
	case zapcore.InfoLevel:
		logger.Info(msg, zapFields...)
	case zapcore.WarnLevel:
		logger.Warn(msg, zapFields...)
	case zapcore.ErrorLevel:
		logger.Error(msg, zapFields...)
	case zapcore.FatalLevel:
		logger.Fatal(msg, zapFields...)
	}
}

// toZapFields unwraps contracts.Field values built by this package; foreign implementations are skipped.
func toZapFields(fields ...contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(*zapField); ok && f.set {
			out = append(out, f.field)
		}
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
	set   bool
}

func (f *zapField) Bool(key string, val bool) contracts.Field {
	return &zapField{zap.Bool(key, val), true}
}

func (f *zapField) Int(key string, val int) contracts.Field {
	return &zapField{zap.Int(key, val), true}
}

func (f *zapField) Float64(key string, val float64) contracts.Field {
	return &zapField{zap.Float64(key, val), true}
}

func (f *zapField) String(key string, val string) contracts.Field {
	return &zapField{zap.String(key, val), true}
}

func (f *zapField) Time(key string, val time.Time) contracts.Field {
	return &zapField{zap.Time(key, val), true}
}

func (f *zapField) Int64(key string, val int64) contracts.Field {
	return &zapField{zap.Int64(key, val), true}
}

func (f *zapField) Error(key string, val error) contracts.Field {
	return &zapField{zap.NamedError(key, val), true}
}

func (f *zapField) Uint64(key string, val uint64) contracts.Field {
	return &zapField{zap.Uint64(key, val), true}
}

func (f *zapField) Uint8(key string, val uint8) contracts.Field {
	return &zapField{zap.Uint8(key, val), true}
}
