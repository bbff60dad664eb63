package auth

import (
	"errors"

	"backend/internal/auth"
	"backend/internal/common"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Handler 认证 Handler
type Handler struct {
	svc *auth.Service
}

// NewHandler 创建 Handler 实例
func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// Login 邮箱密码登录
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录请求"
// @Success 200 {object} common.Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	pair, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			common.ResponseUnauthorized(c, err.Error())
			return
		}
		common.ResponseServerError(c, "登录失败")
		return
	}

	common.ResponseSuccess(c, gin.H{
		"token": pair,
		"user":  user,
	})
}

// Refresh 刷新令牌
// @Summary 刷新令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body refreshRequest true "刷新请求"
// @Success 200 {object} common.Response
// @Router /api/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.ResponseUnauthorized(c, err.Error())
		return
	}

	common.ResponseSuccess(c, gin.H{"token": pair})
}

// Logout 登出
// @Summary 登出
// @Description 撤销当前访问令牌；撤销失败不阻断登出流程
// @Tags Auth
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	// 撤销失败只影响黑名单，令牌仍会自然过期，登出本身始终成功
	_ = h.svc.Logout(c.Request.Context(), c.GetHeader("Authorization"))

	common.ResponseSuccessMessage(c, "登出成功", nil)
}

// Me 当前用户信息
// @Summary 当前用户
// @Tags Auth
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	ident, ok := auth.GetIdentity(c)
	if !ok {
		common.ResponseUnauthorized(c, "")
		return
	}

	common.ResponseSuccess(c, gin.H{
		"user_id":   ident.UserID,
		"tenant_id": ident.TenantID,
		"role":      ident.Role,
	})
}
