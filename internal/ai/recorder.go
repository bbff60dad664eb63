package ai

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UsageRecord 一次调用的用量记录
type UsageRecord struct {
	TenantID   string
	UserID     string
	ProviderID string
	Prompt     string
	Response   string

	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	LatencyMs int64
	Status    string // success, error
	ErrorText string // status=error 时的错误摘要
}

// UsageRecorder 用量日志记录器
// 写入是尽力而为的：任何失败只记告警，绝不向上传播
type UsageRecorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUsageRecorder 创建用量日志记录器
func NewUsageRecorder(db *gorm.DB, log *zap.Logger) *UsageRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &UsageRecorder{db: db, log: log}
}

// Record 写入一条用量日志
// 错误处理只包住这一次写入，避免顺带吞掉无关问题
func (r *UsageRecorder) Record(ctx context.Context, rec *UsageRecord) {
	row := &AIUsageLog{
		ID:               uuid.New().String(),
		TenantID:         rec.TenantID,
		UserID:           rec.UserID,
		ProviderID:       rec.ProviderID,
		Prompt:           rec.Prompt,
		Response:         rec.Response,
		PromptTokens:     rec.PromptTokens,
		CompletionTokens: rec.CompletionTokens,
		TotalTokens:      rec.TotalTokens,
		LatencyMs:        rec.LatencyMs,
		Status:           rec.Status,
	}
	if rec.ErrorText != "" {
		row.Metadata = datatypes.JSONMap{"error": rec.ErrorText}
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		r.log.Warn("写入用量日志失败",
			zap.Error(err),
			zap.String("tenant_id", rec.TenantID),
			zap.String("provider_id", rec.ProviderID),
		)
	}
}
