package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gokatarajesh/trivia-api/internal/logging"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes gorm's query log through zerolog. Queries are logged with
// the request-scoped logger when the context carries one.
type GormLogger struct {
	logger zerolog.Logger
	level  gormlogger.LogLevel
}

// NewGormLogger returns a gorm logger that reports warnings and errors.
func NewGormLogger(logger zerolog.Logger) *GormLogger {
	return &GormLogger{logger: logger, level: gormlogger.Warn}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		logger := l.forContext(ctx)
		logger.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		logger := l.forContext(ctx)
		logger.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		logger := l.forContext(ctx)
		logger.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	logger := l.forContext(ctx)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		query, rows := fc()
		logger.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", query).Msg("query failed")
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		query, rows := fc()
		logger.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", query).Msg("slow query")
	case l.level >= gormlogger.Info:
		query, rows := fc()
		logger.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", query).Msg("query")
	}
}

func (l *GormLogger) forContext(ctx context.Context) zerolog.Logger {
	scoped := logging.FromContext(ctx)
	if scoped.GetLevel() == zerolog.Disabled {
		return l.logger
	}
	return scoped.With().Str("component", "gorm").Logger()
}
