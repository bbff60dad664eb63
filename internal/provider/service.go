package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrProviderNotFound 配置不存在或不可见
	ErrProviderNotFound = errors.New("提供方配置不存在")
	// ErrGlobalForbidden 非平台管理员操作全局配置
	ErrGlobalForbidden = errors.New("只有平台管理员可以维护全局提供方配置")
)

// Service 提供方配置管理服务
type Service struct {
	db *gorm.DB
}

// NewService 创建提供方配置管理服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateProviderRequest 创建提供方配置请求
type CreateProviderRequest struct {
	Name           string   `json:"name" binding:"required"`
	ProviderType   string   `json:"provider_type" binding:"required"`
	Endpoint       string   `json:"endpoint" binding:"required"`
	APIKey         string   `json:"api_key" binding:"required"`
	Model          string   `json:"model" binding:"required"`
	Temperature    *float64 `json:"temperature"`
	MaxTokens      *int     `json:"max_tokens"`
	TimeoutSeconds int      `json:"timeout_seconds"`
	Priority       int      `json:"priority"`
	Global         bool     `json:"global"` // true 时创建全局配置，需要平台管理员
}

// UpdateProviderRequest 更新提供方配置请求
type UpdateProviderRequest struct {
	Name           *string  `json:"name"`
	Endpoint       *string  `json:"endpoint"`
	APIKey         *string  `json:"api_key"`
	Model          *string  `json:"model"`
	Temperature    *float64 `json:"temperature"`
	MaxTokens      *int     `json:"max_tokens"`
	TimeoutSeconds *int     `json:"timeout_seconds"`
	IsActive       *bool    `json:"is_active"`
	Priority       *int     `json:"priority"`
}

// ListProvidersRequest 查询提供方配置列表请求
type ListProvidersRequest struct {
	common.PaginationRequest
	ProviderType string `form:"provider_type"`
	ActiveOnly   bool   `form:"active_only"`
}

// visibleScope 租户可见范围：本租户配置 + 全局配置
func (s *Service) visibleScope(query *gorm.DB, tenantID string) *gorm.DB {
	return query.Where("tenant_id = ? OR tenant_id IS NULL", tenantID)
}

// Create 创建提供方配置
func (s *Service) Create(ctx context.Context, tenantID string, isSystemAdmin bool, req *CreateProviderRequest) (*AIProvider, error) {
	if req.Global && !isSystemAdmin {
		return nil, ErrGlobalForbidden
	}

	p := &AIProvider{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(req.Name),
		ProviderType:   strings.ToLower(strings.TrimSpace(req.ProviderType)),
		Endpoint:       strings.TrimSpace(req.Endpoint),
		APIKey:         req.APIKey,
		Model:          strings.TrimSpace(req.Model),
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		TimeoutSeconds: req.TimeoutSeconds,
		IsActive:       true,
		Priority:       req.Priority,
	}
	if p.Priority == 0 {
		p.Priority = 100
	}
	if !req.Global {
		tid := tenantID
		p.TenantID = &tid
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("创建提供方配置失败: %w", err)
	}
	return p, nil
}

// Get 查询单条配置（限本租户可见范围）
func (s *Service) Get(ctx context.Context, tenantID, id string) (*AIProvider, error) {
	var p AIProvider
	err := s.visibleScope(s.db.WithContext(ctx), tenantID).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("查询提供方配置失败: %w", err)
	}
	return &p, nil
}

// List 查询配置列表（本租户 + 全局）
func (s *Service) List(ctx context.Context, tenantID string, req *ListProvidersRequest) ([]AIProvider, int64, error) {
	query := s.visibleScope(s.db.WithContext(ctx).Model(&AIProvider{}), tenantID)

	if req.ProviderType != "" {
		query = query.Where("provider_type = ?", strings.ToLower(req.ProviderType))
	}
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计提供方配置失败: %w", err)
	}

	var items []AIProvider
	err := query.
		Order("priority ASC, created_at ASC").
		Offset(req.GetOffset()).
		Limit(req.GetPageSize()).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询提供方配置列表失败: %w", err)
	}

	return items, total, nil
}

// Update 更新配置
// 全局配置仅平台管理员可改
func (s *Service) Update(ctx context.Context, tenantID string, isSystemAdmin bool, id string, req *UpdateProviderRequest) (*AIProvider, error) {
	p, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p.IsGlobal() && !isSystemAdmin {
		return nil, ErrGlobalForbidden
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Endpoint != nil {
		updates["endpoint"] = strings.TrimSpace(*req.Endpoint)
	}
	if req.APIKey != nil {
		updates["api_key"] = *req.APIKey
	}
	if req.Model != nil {
		updates["model"] = strings.TrimSpace(*req.Model)
	}
	if req.Temperature != nil {
		updates["temperature"] = *req.Temperature
	}
	if req.MaxTokens != nil {
		updates["max_tokens"] = *req.MaxTokens
	}
	if req.TimeoutSeconds != nil {
		updates["timeout_seconds"] = *req.TimeoutSeconds
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("更新提供方配置失败: %w", err)
		}
	}

	return s.Get(ctx, tenantID, id)
}

// Delete 删除配置
func (s *Service) Delete(ctx context.Context, tenantID string, isSystemAdmin bool, id string) error {
	p, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if p.IsGlobal() && !isSystemAdmin {
		return ErrGlobalForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&AIProvider{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("删除提供方配置失败: %w", err)
	}
	return nil
}
