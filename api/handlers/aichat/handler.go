package aichat

import (
	"net/http"

	"backend/internal/ai"
	"backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// chatRequest 对话请求体
type chatRequest struct {
	Prompt       string         `json:"prompt" binding:"required"`
	Type         string         `json:"type"`
	Context      map[string]any `json:"context"`
	SystemPrompt string         `json:"system_prompt"`
}

// Handler AI 对话分发 Handler
type Handler struct {
	authSvc    *auth.Service
	dispatcher *ai.Dispatcher
}

// NewHandler 创建 Handler 实例
func NewHandler(authSvc *auth.Service, dispatcher *ai.Dispatcher) *Handler {
	return &Handler{
		authSvc:    authSvc,
		dispatcher: dispatcher,
	}
}

// Chat AI 对话
// @Summary AI 对话
// @Description 按租户解析提供方配置并分发提示词；逻辑失败也返回 200，错误通过响应体 error 字段传递（既有调用方兼容契约）
// @Tags AI
// @Accept json
// @Produce json
// @Param request body chatRequest true "对话请求"
// @Success 200 {object} map[string]any
// @Router /api/ai/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	// 身份解析在 Handler 内完成：认证失败同样走带内错误通道
	ident, err := h.authSvc.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), ident.TenantID, ident.UserID, &ai.PromptRequest{
		Prompt:       req.Prompt,
		Type:         req.Type,
		Context:      req.Context,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": result.Response,
		"usage":    result.Usage,
	})
}

// respondError 带内错误响应：HTTP 状态恒为 200，错误文本放入 error 字段
func (h *Handler) respondError(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{
		"error": err.Error(),
	})
}
