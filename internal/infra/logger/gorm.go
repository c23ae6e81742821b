package logger

import (
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

type gormWriter struct {
	sugar *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.sugar.Warnf(format, args...)
}

// Gorm adapts l for GORM: warnings and slow queries only, without record-not-found noise.
func Gorm(l *zap.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{sugar: OrNop(l).WithOptions(zap.AddCallerSkip(2)).Sugar()}, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
