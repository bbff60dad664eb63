package ai

import (
	"fmt"

	"backend/internal/ai/gemini"
	"backend/internal/ai/glm"
	"backend/internal/provider"
	"backend/pkg/aiinterface"
)

// newAdapter 按提供方类型创建协议适配器
// 类型分支是穷举的：新增协议族需要同时扩展 aiinterface.ParseKind 和这里的分发
func newAdapter(p *provider.AIProvider) (aiinterface.Adapter, error) {
	config := &aiinterface.ClientConfig{
		Endpoint:       p.Endpoint,
		APIKey:         p.APIKey,
		Model:          p.Model,
		Temperature:    p.Temperature,
		MaxTokens:      p.MaxTokens,
		TimeoutSeconds: p.TimeoutSeconds,
	}

	kind, ok := aiinterface.ParseKind(p.ProviderType)
	if !ok {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeUnsupported,
			Message: fmt.Sprintf("不支持的提供方类型: %s", p.ProviderType),
		}
	}

	switch kind {
	case aiinterface.KindGLM:
		return glm.NewClient(config)
	case aiinterface.KindGemini:
		return gemini.NewClient(config)
	default:
		// ParseKind 已经拦截了未知类型，此分支只在枚举扩展不同步时触达
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeUnsupported,
			Message: fmt.Sprintf("不支持的提供方类型: %s", p.ProviderType),
		}
	}
}
