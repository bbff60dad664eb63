package infra

import (
	"context"
	"testing"
	"time"

	"backend/internal/config"

	"github.com/stretchr/testify/assert"
	gormLogger "gorm.io/gorm/logger"
)

func TestNewGormLoggerThreshold(t *testing.T) {
	t.Run("配置阈值", func(t *testing.T) {
		l := newGormLogger(&config.DatabaseConfig{SlowQueryMs: 500})
		assert.Equal(t, 500*time.Millisecond, l.slowThreshold)
	})

	t.Run("零值回退缺省", func(t *testing.T) {
		l := newGormLogger(&config.DatabaseConfig{})
		assert.Equal(t, defaultSlowQueryThreshold, l.slowThreshold)
	})
}

func TestGormLoggerLogMode(t *testing.T) {
	l := newGormLogger(&config.DatabaseConfig{})
	clone := l.LogMode(gormLogger.Info)

	// LogMode 返回副本，原实例级别不变
	assert.Equal(t, gormLogger.Warn, l.level)
	assert.Equal(t, gormLogger.Info, clone.(*gormZapLogger).level)
}

func TestGormLoggerTrace(t *testing.T) {
	l := newGormLogger(&config.DatabaseConfig{SlowQueryMs: 100})
	fc := func() (string, int64) { return "SELECT 1", 1 }

	// 三档分类都不应 panic（全局日志未初始化时走 Nop）
	l.Trace(context.Background(), time.Now(), fc, nil)
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	l.Trace(context.Background(), time.Now(), fc, gormLogger.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now(), fc, assert.AnError)

	// Silent 级别完全静默
	silent := l.LogMode(gormLogger.Silent)
	silent.(*gormZapLogger).Trace(context.Background(), time.Now(), fc, assert.AnError)
}
