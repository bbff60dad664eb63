package ai

import (
	"context"
	"fmt"
	"time"

	"backend/internal/common"

	"gorm.io/gorm"
)

// UsageService 用量日志查询服务（租户侧运营视图）
type UsageService struct {
	db *gorm.DB
}

// NewUsageService 创建用量日志查询服务
func NewUsageService(db *gorm.DB) *UsageService {
	return &UsageService{db: db}
}

// ListUsageRequest 查询用量日志请求
type ListUsageRequest struct {
	common.PaginationRequest
	Status string `form:"status"`
	Since  string `form:"since"` // RFC3339，为空不限
}

// UsageTotals 租户 Token 用量汇总
type UsageTotals struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	Calls            int64 `json:"calls"`
}

// List 按租户查询用量日志
func (s *UsageService) List(ctx context.Context, tenantID string, req *ListUsageRequest) ([]AIUsageLog, int64, error) {
	query := s.db.WithContext(ctx).Model(&AIUsageLog{}).Where("tenant_id = ?", tenantID)

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return nil, 0, fmt.Errorf("since 参数格式错误: %w", err)
		}
		query = query.Where("created_at >= ?", since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计用量日志失败: %w", err)
	}

	var items []AIUsageLog
	err := query.
		Order("created_at DESC").
		Offset(req.GetOffset()).
		Limit(req.GetPageSize()).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询用量日志失败: %w", err)
	}

	return items, total, nil
}

// Totals 按租户汇总 Token 用量
func (s *UsageService) Totals(ctx context.Context, tenantID string) (*UsageTotals, error) {
	var totals UsageTotals
	err := s.db.WithContext(ctx).
		Model(&AIUsageLog{}).
		Select("COALESCE(SUM(prompt_tokens),0) AS prompt_tokens, COALESCE(SUM(completion_tokens),0) AS completion_tokens, COALESCE(SUM(total_tokens),0) AS total_tokens, COUNT(*) AS calls").
		Where("tenant_id = ?", tenantID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("汇总用量失败: %w", err)
	}
	return &totals, nil
}
