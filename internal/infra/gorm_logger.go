package infra

import (
	"context"
	"errors"
	"time"

	"backend/internal/config"
	"backend/internal/logger"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"
)

// defaultSlowQueryThreshold 配置未给出慢查询阈值时的缺省值
const defaultSlowQueryThreshold = 200 * time.Millisecond

// gormZapLogger 把 GORM 日志接入 zap
// SQL 日志附带请求 trace_id，便于和 HTTP 访问日志对齐
// ErrRecordNotFound 不算错误：解析、查找流程都用它做控制流
type gormZapLogger struct {
	level         gormLogger.LogLevel
	slowThreshold time.Duration
}

// newGormLogger 按数据库配置创建 GORM 日志适配器
func newGormLogger(cfg *config.DatabaseConfig) *gormZapLogger {
	threshold := time.Duration(cfg.SlowQueryMs) * time.Millisecond
	if threshold <= 0 {
		threshold = defaultSlowQueryThreshold
	}
	return &gormZapLogger{
		level:         gormLogger.Warn,
		slowThreshold: threshold,
	}
}

// LogMode 设置日志级别
func (l *gormZapLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info 日志
func (l *gormZapLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Info {
		logger.WithContext(ctx).Sugar().Infof(msg, data...)
	}
}

// Warn 日志
func (l *gormZapLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Warn {
		logger.WithContext(ctx).Sugar().Warnf(msg, data...)
	}
}

// Error 日志
func (l *gormZapLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormLogger.Error {
		logger.WithContext(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace SQL 执行日志：错误、慢查询、普通执行三档
func (l *gormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	log := logger.WithContext(ctx)
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound):
		log.Error("SQL 执行错误", append(fields, zap.Error(err))...)
	case elapsed > l.slowThreshold:
		log.Warn("SQL 慢查询", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	case l.level >= gormLogger.Info:
		log.Debug("SQL 执行", fields...)
	}
}
