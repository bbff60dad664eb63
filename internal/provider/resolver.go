package provider

import (
	"context"
	"errors"
	"fmt"

	"backend/pkg/aiinterface"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NoActiveProviderError 无可用提供方
// 携带当前可见的活跃配置数量，便于运维定位是无配置还是配置不匹配
type NoActiveProviderError struct {
	Visible int64
}

// Error 实现error接口
func (e *NoActiveProviderError) Error() string {
	return fmt.Sprintf("没有可用的 AI 提供方配置（可见活跃配置 %d 条）", e.Visible)
}

// Resolver 提供方解析器
// 每次请求重新解析，不做跨请求缓存；配置对本流程只读，并发读取安全
type Resolver struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewResolver 创建提供方解析器
func NewResolver(db *gorm.DB, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{db: db, log: log}
}

// Resolve 为指定租户解析出唯一一个提供方配置
// 两级查找：
//  1. 租户私有的活跃 GLM 配置，按 priority 升序取第一条
//  2. 全局（tenant_id IS NULL）活跃配置，按 priority 升序取第一条；
//     此级不按类型过滤，保持与既有调用方兼容的宽松行为
//
// 相同 priority 按 created_at、id 兜底排序，保证选择结果确定且稳定
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (*AIProvider, error) {
	var p AIProvider

	// 第一级：租户私有配置
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND provider_type = ? AND is_active = ?", tenantID, string(aiinterface.KindGLM), true).
		Order("priority ASC, created_at ASC, id ASC").
		First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询租户提供方配置失败: %w", err)
	}

	// 第二级：全局回退
	err = r.db.WithContext(ctx).
		Where("tenant_id IS NULL AND is_active = ?", true).
		Order("priority ASC, created_at ASC, id ASC").
		First(&p).Error
	if err == nil {
		if _, ok := aiinterface.ParseKind(p.ProviderType); !ok {
			// 宽松回退可能选中无适配器的全局配置，此处只告警，失败留给分发阶段
			r.log.Warn("全局回退选中了无适配器的提供方类型",
				zap.String("provider_id", p.ID),
				zap.String("provider_type", p.ProviderType),
				zap.String("tenant_id", tenantID),
			)
		}
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询全局提供方配置失败: %w", err)
	}

	// 两级都未命中，统计可见活跃配置数用于诊断
	var visible int64
	if err := r.db.WithContext(ctx).
		Model(&AIProvider{}).
		Where("is_active = ?", true).
		Count(&visible).Error; err != nil {
		return nil, fmt.Errorf("统计提供方配置失败: %w", err)
	}

	return nil, &NoActiveProviderError{Visible: visible}
}
