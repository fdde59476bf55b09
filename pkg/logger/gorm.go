package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends GORM output through the request-scoped logger. Failed
// statements log at error level, statements slower than the threshold at
// warn, and everything else only at debug.
type GormLogger struct {
	log           *Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormLogger)(nil)

func NewGormLogger(log *Logger, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{log: log, slowThreshold: slowThreshold, level: gormlogger.Warn}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, format string, args ...any) {
	if g.level >= gormlogger.Info {
		g.log.Info(ctx, fmt.Sprintf(format, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, format string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(ctx, fmt.Sprintf(format, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, format string, args ...any) {
	if g.level >= gormlogger.Error {
		g.log.Error(ctx, fmt.Sprintf(format, args...), nil)
	}
}

// Trace logs one statement. A missing row is an expected outcome for
// lookups and is not treated as a failure.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := g.slowThreshold > 0 && elapsed > g.slowThreshold

	if !failed && !slow && g.level < gormlogger.Info {
		return
	}

	sql, rows := fc()
	ctx = g.log.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	switch {
	case failed && g.level >= gormlogger.Error:
		g.log.Error(ctx, "db.query_failed", err)
	case slow && g.level >= gormlogger.Warn:
		g.log.Warn(ctx, "db.query_slow")
	case g.level >= gormlogger.Info:
		g.log.Debug(ctx, "db.query")
	}
}
