package aiinterface

import "context"

// ProviderKind 提供方协议族
// 每个枚举值对应一个已实现的协议适配器，枚举之外的值在分发阶段被显式拒绝
type ProviderKind string

const (
	KindGLM    ProviderKind = "glm"    // GLM 系列，OpenAI 兼容协议
	KindGemini ProviderKind = "gemini" // Google Gemini generateContent 协议
)

// ParseKind 解析提供方类型字符串
// ok 为 false 表示该类型没有对应的适配器
func ParseKind(s string) (ProviderKind, bool) {
	switch ProviderKind(s) {
	case KindGLM:
		return KindGLM, true
	case KindGemini:
		return KindGemini, true
	}
	return ProviderKind(s), false
}

// ChatRequest 协议无关的对话请求
// ContextJSON 由上层序列化好，各适配器按自身协议决定如何拼接
type ChatRequest struct {
	SystemPrompt string `json:"system_prompt"`
	UserPrompt   string `json:"user_prompt"`
	ContextJSON  string `json:"context,omitempty"`
}

// ChatResponse 归一化后的对话响应
type ChatResponse struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Usage Token 使用情况
// 上游字段命名因协议而异，适配器负责归一化，缺失字段保持零值
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// 生成参数缺省值
const (
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 1024
	DefaultTimeoutSeconds = 60
)

// ClientConfig 适配器配置
// 字段来源于数据库中的提供方配置；Temperature/MaxTokens 为空时使用缺省值
type ClientConfig struct {
	Endpoint       string
	APIKey         string
	Model          string
	Temperature    *float64
	MaxTokens      *int
	TimeoutSeconds int
}

// TemperatureOrDefault 返回温度参数，缺省 0.7
func (c *ClientConfig) TemperatureOrDefault() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// MaxTokensOrDefault 返回最大输出 Token 数，缺省 1024
func (c *ClientConfig) MaxTokensOrDefault() int {
	if c.MaxTokens == nil || *c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return *c.MaxTokens
}

// TimeoutOrDefault 返回出站超时秒数，缺省 60 秒
func (c *ClientConfig) TimeoutOrDefault() int {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds
	}
	return c.TimeoutSeconds
}

// Adapter 提供方协议适配器统一接口
// 每次 Invoke 只发起一次同步上游调用，不做重试
type Adapter interface {
	// Invoke 发起一次对话补全调用并归一化响应
	Invoke(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Kind 返回适配器对应的协议族
	Kind() ProviderKind

	// Close 释放底层连接
	Close() error
}

// ErrorType 错误类型
type ErrorType string

const (
	ErrorTypeInvalidConfig ErrorType = "invalid_config" // 配置缺失或非法
	ErrorTypeUpstream      ErrorType = "upstream"       // 上游返回非成功状态
	ErrorTypeEmptyResponse ErrorType = "empty_response" // 上游成功但无可用内容
	ErrorTypeUnsupported   ErrorType = "unsupported"    // 类型没有对应适配器
	ErrorTypeNetwork       ErrorType = "network"        // 网络层失败
)

// ClientError 适配器错误
type ClientError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error 实现error接口
func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回原始错误
func (e *ClientError) Unwrap() error {
	return e.Err
}
