package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTemplateNotFound 模板不存在
var ErrTemplateNotFound = errors.New("提示词模板不存在")

// Service 提示词模板管理服务
type Service struct {
	db *gorm.DB
}

// NewService 创建模板管理服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateTemplateRequest 创建模板请求
type CreateTemplateRequest struct {
	Name     string `json:"name" binding:"required"`
	Title    string `json:"title"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
}

// UpdateTemplateRequest 更新模板请求
type UpdateTemplateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	IsActive *bool   `json:"is_active"`
}

// ListTemplatesRequest 查询模板列表请求
type ListTemplatesRequest struct {
	common.PaginationRequest
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
}

// Create 创建模板
// 同名旧模板转为非活跃，保证同名只有一条活跃记录
func (s *Service) Create(ctx context.Context, req *CreateTemplateRequest) (*PromptTemplate, error) {
	name := strings.TrimSpace(req.Name)

	var version int
	tpl := &PromptTemplate{
		ID:       uuid.New().String(),
		Name:     name,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: strings.ToLower(strings.TrimSpace(req.Category)),
		IsActive: true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var latest PromptTemplate
		err := tx.Where("name = ?", name).Order("version DESC").First(&latest).Error
		switch {
		case err == nil:
			version = latest.Version + 1
		case errors.Is(err, gorm.ErrRecordNotFound):
			version = 1
		default:
			return fmt.Errorf("查询既有模板失败: %w", err)
		}

		if err := tx.Model(&PromptTemplate{}).
			Where("name = ? AND is_active = ?", name, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("停用旧版本模板失败: %w", err)
		}

		tpl.Version = version
		return tx.Create(tpl).Error
	})
	if err != nil {
		return nil, fmt.Errorf("创建提示词模板失败: %w", err)
	}

	return tpl, nil
}

// Get 查询单条模板
func (s *Service) Get(ctx context.Context, id string) (*PromptTemplate, error) {
	var tpl PromptTemplate
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("查询提示词模板失败: %w", err)
	}
	return &tpl, nil
}

// List 查询模板列表
func (s *Service) List(ctx context.Context, req *ListTemplatesRequest) ([]PromptTemplate, int64, error) {
	query := s.db.WithContext(ctx).Model(&PromptTemplate{})

	if req.Category != "" {
		query = query.Where("category = ?", strings.ToLower(req.Category))
	}
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计提示词模板失败: %w", err)
	}

	var items []PromptTemplate
	err := query.
		Order("name ASC, version DESC").
		Offset(req.GetOffset()).
		Limit(req.GetPageSize()).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询提示词模板列表失败: %w", err)
	}

	return items, total, nil
}

// Update 更新模板
func (s *Service) Update(ctx context.Context, id string, req *UpdateTemplateRequest) (*PromptTemplate, error) {
	tpl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Category != nil {
		updates["category"] = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(tpl).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("更新提示词模板失败: %w", err)
		}
	}

	return s.Get(ctx, id)
}

// Delete 删除模板
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&PromptTemplate{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("删除提示词模板失败: %w", err)
	}
	return nil
}
