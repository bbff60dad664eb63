package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grc_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// AI 分发指标
var (
	// DispatchTotal 分发总数
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_ai_dispatch_total",
			Help: "AI 分发总数",
		},
		[]string{"provider_type", "status"},
	)

	// DispatchDuration 上游调用耗时（秒）
	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grc_ai_dispatch_duration_seconds",
			Help:    "AI 上游调用耗时分布",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider_type"},
	)

	// TokensInput 输入 Token 累计
	TokensInput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_ai_tokens_input_total",
			Help: "输入 Token 累计",
		},
		[]string{"provider_type"},
	)

	// TokensOutput 输出 Token 累计
	TokensOutput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grc_ai_tokens_output_total",
			Help: "输出 Token 累计",
		},
		[]string{"provider_type"},
	)
)
