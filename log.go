package slabJSON

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levelMap = map[string]zapcore.Level{
	"DEBUG": zapcore.DebugLevel,
	"INFO":  zapcore.InfoLevel,
	"WARN":  zapcore.WarnLevel,
	"ERROR": zapcore.ErrorLevel,
}

var zaplogger atomic.Pointer[zap.Logger]

func init() {
	zaplogger.Store(zap.NewNop())
}

// Logger returns the package logger. It discards everything until
// SetLogger is called.
func Logger() *zap.Logger {
	return zaplogger.Load()
}

// SetLogger replaces the package logger; nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	zaplogger.Store(l)
}

// NewSugar returns a named sugared child of the package logger.
func NewSugar(name string) *zap.SugaredLogger {
	return Logger().Named(name).Sugar()
}

// NewConsoleLogger builds a console logger writing to stderr at the given
// level (DEBUG, INFO, WARN or ERROR, any case).
func NewConsoleLogger(level string) (*zap.Logger, error) {
	zapLevel, ok := levelMap[strings.ToUpper(level)]
	if !ok {
		return nil, errors.Errorf("illegal log level: %s", level)
	}
	core := zapcore.NewCore(getEncoder(), zapcore.AddSync(os.Stderr), zapLevel)
	return zap.New(core, zap.AddCaller()), nil
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = "|"
	return zapcore.NewConsoleEncoder(encoderConfig)
}
