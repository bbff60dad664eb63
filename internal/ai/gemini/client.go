// Package gemini Google Gemini 客户端
// generateContent 协议，鉴权方式为 URL 查询参数 key
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"backend/pkg/aiinterface"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Client Gemini 客户端
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewClient 创建 Gemini 客户端
func NewClient(config *aiinterface.ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeInvalidConfig,
			Message: "Gemini API Key 不能为空",
		}
	}

	baseURL := strings.TrimRight(config.Endpoint, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		apiKey:      config.APIKey,
		baseURL:     baseURL,
		model:       config.Model,
		temperature: config.TemperatureOrDefault(),
		maxTokens:   config.MaxTokensOrDefault(),
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutOrDefault()) * time.Second,
		},
	}, nil
}

// Kind 返回协议族
func (c *Client) Kind() aiinterface.ProviderKind {
	return aiinterface.KindGemini
}

// 请求/响应的线上结构

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Invoke 对话补全
// Gemini 协议只接受单段文本，系统提示词、上下文和用户输入合并为一个 part
func (c *Client) Invoke(ctx context.Context, req *aiinterface.ChatRequest) (*aiinterface.ChatResponse, error) {
	var sb strings.Builder
	sb.WriteString(req.SystemPrompt)
	if req.ContextJSON != "" {
		sb.WriteString("\n\nContext:\n")
		sb.WriteString(req.ContextJSON)
	}
	sb.WriteString("\n\n")
	sb.WriteString(req.UserPrompt)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: sb.String()}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// 单次调用，不做重试
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeNetwork,
			Message: fmt.Sprintf("Gemini 请求失败: %v", err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 错误响应体带入错误信息，便于诊断
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeUpstream,
			Message: fmt.Sprintf("Gemini 上游返回 HTTP %d: %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, &aiinterface.ClientError{
			Type:    aiinterface.ErrorTypeEmptyResponse,
			Message: "Gemini 返回空响应",
		}
	}

	// usageMetadata 缺失字段保持零值
	return &aiinterface.ChatResponse{
		Content: geminiResp.Candidates[0].Content.Parts[0].Text,
		Usage: aiinterface.Usage{
			PromptTokens:     geminiResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: geminiResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      geminiResp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
