package sqlstore

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// zapWriter пересылает вывод логгера gorm в zap.
type zapWriter struct {
	log *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.log.Infof(format, args...)
}

// newGormLogger строит логгер gorm, уровень которого следует уровню zap.
func newGormLogger(log *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	switch {
	case log.Core().Enabled(zapcore.DebugLevel):
		level = gormlogger.Info
	case !log.Core().Enabled(zapcore.WarnLevel):
		level = gormlogger.Silent
	}

	return gormlogger.New(zapWriter{log: log.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
