// Package glm GLM 系列大模型客户端
// GLM 开放平台兼容 OpenAI API 协议，鉴权方式为 Bearer 请求头
package glm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"backend/pkg/aiinterface"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"
)

// Client GLM 客户端
type Client struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewClient 创建 GLM 客户端
func NewClient(config *aiinterface.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeInvalidConfig,
			Message: "GLM API Key 不能为空",
		}
	}

	baseURL := config.Endpoint
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: time.Duration(config.TimeoutOrDefault()) * time.Second,
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       config.Model,
		temperature: config.TemperatureOrDefault(),
		maxTokens:   config.MaxTokensOrDefault(),
	}, nil
}

// Kind 返回协议族
func (c *Client) Kind() aiinterface.ProviderKind {
	return aiinterface.KindGLM
}

// Invoke 对话补全
// 单次同步调用，不做重试；上下文作为独立的 user 消息注入多轮结构
func (c *Client) Invoke(ctx context.Context, req *aiinterface.ChatRequest) (*aiinterface.ChatResponse, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
	}
	if req.ContextJSON != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: "Context:\n" + req.ContextJSON,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: requestTemperature(c.temperature),
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	// 传输层成功不代表有可用内容
	if len(resp.Choices) == 0 {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeEmptyResponse,
			Message: "GLM 返回空响应",
		}
	}

	return &aiinterface.ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: aiinterface.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	return nil
}

// requestTemperature 转换请求温度
// go-openai 对零值温度做 omitempty，显式配置的 0 用最小正数占位，
// 否则上游会退回自身的默认温度
func requestTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeUpstream,
			Message: fmt.Sprintf("GLM 上游返回 HTTP %d: %s", apiErr.HTTPStatusCode, apiErr.Message),
			Err:     err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeUpstream,
			Message: fmt.Sprintf("GLM 上游返回 HTTP %d", reqErr.HTTPStatusCode),
			Err:     err,
		}
	}

	return &aiinterface.ClientError{
		Type:    aiinterface.ErrorTypeNetwork,
		Message: fmt.Sprintf("GLM 请求失败: %v", err),
		Err:     err,
	}
}
