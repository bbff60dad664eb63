package provider

import "time"

// AIProvider 上游 AI 提供方配置
// TenantID 为 NULL 表示全局共享配置，任意租户在没有私有配置时回退使用
// 由管理员带外维护，分发流程只读
type AIProvider struct {
	ID       string  `json:"id" gorm:"primaryKey;type:uuid"`
	TenantID *string `json:"tenantId" gorm:"type:uuid;index:idx_providers_lookup,priority:1"`

	Name         string `json:"name" gorm:"size:100;not null"`
	ProviderType string `json:"providerType" gorm:"size:50;not null;index:idx_providers_lookup,priority:2"` // glm, gemini, ...
	Endpoint     string `json:"endpoint" gorm:"size:500;not null"`
	APIKey       string `json:"-" gorm:"size:500;not null"`
	Model        string `json:"model" gorm:"size:100;not null"`

	// 生成参数，为空时适配器使用缺省值
	Temperature *float64 `json:"temperature" gorm:"type:decimal(3,2)"`
	MaxTokens   *int     `json:"maxTokens"`

	TimeoutSeconds int  `json:"timeoutSeconds" gorm:"default:0"` // 0 表示使用缺省 60 秒
	IsActive       bool `json:"isActive" gorm:"default:true;index:idx_providers_lookup,priority:3"`
	Priority       int  `json:"priority" gorm:"default:100;index:idx_providers_lookup,priority:4"` // 越小越优先

	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;autoUpdateTime"`
}

// TableName 指定表名
func (AIProvider) TableName() string {
	return "ai_providers"
}

// IsGlobal 是否为全局共享配置
func (p *AIProvider) IsGlobal() bool {
	return p.TenantID == nil || *p.TenantID == ""
}
