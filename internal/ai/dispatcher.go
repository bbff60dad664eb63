package ai

import (
	"context"
	"time"

	"backend/internal/metrics"
	"backend/internal/prompt"
	"backend/internal/provider"
	"backend/pkg/aiinterface"

	"go.uber.org/zap"
)

// PromptRequest 一次分发的输入
type PromptRequest struct {
	Prompt       string         `json:"prompt"`
	Type         string         `json:"type"`
	Context      map[string]any `json:"context"`
	SystemPrompt string         `json:"system_prompt"`
}

// DispatchResult 分发结果
type DispatchResult struct {
	Response   string            `json:"response"`
	Usage      aiinterface.Usage `json:"usage"`
	ProviderID string            `json:"provider_id"`
}

// Dispatcher AI 提示词分发器
// 每次调用独立执行四步：提供方解析 → 提示词组装 → 协议调用 → 用量记录
// 无跨请求状态，无重试，无排队
type Dispatcher struct {
	resolver  *provider.Resolver
	assembler *prompt.Assembler
	recorder  *UsageRecorder
	log       *zap.Logger
}

// NewDispatcher 创建分发器
func NewDispatcher(resolver *provider.Resolver, assembler *prompt.Assembler, recorder *UsageRecorder, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		resolver:  resolver,
		assembler: assembler,
		recorder:  recorder,
		log:       log,
	}
}

// Dispatch 执行一次完整的分发
// 身份已由调用方解析完成；返回的 error 均为终态错误，直接转为带内错误响应
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID, userID string, req *PromptRequest) (*DispatchResult, error) {
	// 1. 提供方解析
	prov, err := d.resolver.Resolve(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// 2. 提示词组装
	assembled, err := d.assembler.Assemble(ctx, req.Type, req.SystemPrompt, req.Context, req.Prompt)
	if err != nil {
		return nil, err
	}

	// 3. 协议适配器分发
	adapter, err := newAdapter(prov)
	if err != nil {
		return nil, err
	}
	defer adapter.Close()

	start := time.Now()
	resp, invokeErr := adapter.Invoke(ctx, &aiinterface.ChatRequest{
		SystemPrompt: assembled.SystemPrompt,
		UserPrompt:   assembled.UserPrompt,
		ContextJSON:  assembled.ContextJSON,
	})
	latency := time.Since(start)

	status := "success"
	if invokeErr != nil {
		status = "error"
	}

	metrics.DispatchTotal.WithLabelValues(prov.ProviderType, status).Inc()
	metrics.DispatchDuration.WithLabelValues(prov.ProviderType).Observe(latency.Seconds())

	// 4. 用量记录
	// 调用已完成（无论成败）即记录；调用方断开不应打断写入，故剥离取消信号
	rec := &UsageRecord{
		TenantID:   tenantID,
		UserID:     userID,
		ProviderID: prov.ID,
		Prompt:     req.Prompt,
		LatencyMs:  latency.Milliseconds(),
		Status:     status,
	}
	if invokeErr != nil {
		rec.ErrorText = invokeErr.Error()
	} else {
		rec.Response = resp.Content
		rec.PromptTokens = resp.Usage.PromptTokens
		rec.CompletionTokens = resp.Usage.CompletionTokens
		rec.TotalTokens = resp.Usage.TotalTokens

		metrics.TokensInput.WithLabelValues(prov.ProviderType).Add(float64(resp.Usage.PromptTokens))
		metrics.TokensOutput.WithLabelValues(prov.ProviderType).Add(float64(resp.Usage.CompletionTokens))
	}
	d.recorder.Record(context.WithoutCancel(ctx), rec)

	if invokeErr != nil {
		d.log.Warn("上游调用失败",
			zap.String("provider_id", prov.ID),
			zap.String("provider_type", prov.ProviderType),
			zap.Error(invokeErr),
		)
		return nil, invokeErr
	}

	return &DispatchResult{
		Response:   resp.Content,
		Usage:      resp.Usage,
		ProviderID: prov.ID,
	}, nil
}
