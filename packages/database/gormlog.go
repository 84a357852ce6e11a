package database

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSlowThreshold 超过该耗时的 SQL 记为慢查询
const DefaultSlowThreshold = 200 * time.Millisecond

// GormLogger 把 GORM 日志写入 zap
type GormLogger struct {
	log           *zap.Logger // 为空时使用全局 logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger level 取值 silent, error, warn, info
func NewGormLogger(log *zap.Logger, level string) *GormLogger {
	return &GormLogger{
		log:           log,
		level:         ParseGormLevel(level),
		slowThreshold: DefaultSlowThreshold,
	}
}

// ParseGormLevel 未知取值按 info 处理
func ParseGormLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	default:
		return logger.Info
	}
}

func (l *GormLogger) zap() *zap.Logger {
	if l.log != nil {
		return l.log
	}
	return zap.L()
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.zap().Sugar().Infof(msg, args...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.zap().Sugar().Warnf(msg, args...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.zap().Sugar().Errorf(msg, args...)
	}
}

// Trace 记录 SQL；记录不存在不算错误
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.zap().Error("SQL 执行失败",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed), zap.Error(err))
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.zap().Warn("慢查询",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.level >= logger.Info:
		sql, rows := fc()
		l.zap().Debug("SQL",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}
