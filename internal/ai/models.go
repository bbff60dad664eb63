package ai

import (
	"time"

	"gorm.io/datatypes"
)

// AIUsageLog AI 调用用量日志
// 只追加，写入失败不影响主流程
type AIUsageLog struct {
	ID         string `json:"id" gorm:"primaryKey;type:uuid"`
	TenantID   string `json:"tenantId" gorm:"type:uuid;not null;index"`
	UserID     string `json:"userId" gorm:"type:uuid;index"`
	ProviderID string `json:"providerId" gorm:"type:uuid;not null;index"`

	Prompt   string `json:"prompt" gorm:"type:text"`
	Response string `json:"response" gorm:"type:text"`

	// Token 统计（上游未返回时为 0）
	PromptTokens     int `json:"promptTokens" gorm:"not null;default:0"`
	CompletionTokens int `json:"completionTokens" gorm:"not null;default:0"`
	TotalTokens      int `json:"totalTokens" gorm:"not null;default:0"`

	LatencyMs int64             `json:"latencyMs"`
	Status    string            `json:"status" gorm:"size:32;not null"` // success, error
	Metadata  datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;autoCreateTime;index"`
}

// TableName 指定表名
func (AIUsageLog) TableName() string {
	return "ai_usage_logs"
}
