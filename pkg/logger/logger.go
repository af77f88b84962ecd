package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var InfoLogger, FatalLogger *zap.Logger

var (
	serviceName = "default"
)

type Config struct {
	Level       string
	Development bool
}

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// New строит zap-логгер и заодно инициализирует пакетные хелперы Info/Error/Fatal.
func New(conf Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if conf.Level != "" {
		if err := level.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", conf.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	l = l.With(zap.String("service", serviceName))

	InfoLogger = l
	FatalLogger = l
	return l, nil
}

func Info(format string, args ...interface{}) {
	if InfoLogger == nil {
		panic("InfoLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	InfoLogger.Info(msg)
}

func Error(format string, args ...interface{}) {
	if InfoLogger == nil {
		panic("InfoLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	InfoLogger.Error(msg)
}

func Fatal(format string, args ...interface{}) {
	if FatalLogger == nil {
		panic("FatalLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	FatalLogger.Fatal(msg)
}
