package providers

import (
	"errors"

	"backend/internal/auth"
	"backend/internal/common"
	"backend/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 提供方配置管理 Handler
type Handler struct {
	svc *provider.Service
}

// NewHandler 创建 Handler 实例
func NewHandler(svc *provider.Service) *Handler {
	return &Handler{svc: svc}
}

// List 查询提供方配置列表
// @Summary 提供方配置列表
// @Tags Providers
// @Produce json
// @Param provider_type query string false "类型过滤"
// @Param active_only query bool false "仅活跃"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} common.Response
// @Router /api/providers [get]
func (h *Handler) List(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	var req provider.ListProvidersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), ident.TenantID, &req)
	if err != nil {
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseList(c, items, total, &req.PaginationRequest)
}

// Create 创建提供方配置
// @Summary 创建提供方配置
// @Tags Providers
// @Accept json
// @Produce json
// @Success 201 {object} common.Response
// @Router /api/providers [post]
func (h *Handler) Create(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	var req provider.CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Create(c.Request.Context(), ident.TenantID, ident.IsSystemAdmin(), &req)
	if err != nil {
		if errors.Is(err, provider.ErrGlobalForbidden) {
			common.ResponseForbidden(c, err.Error())
			return
		}
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseCreated(c, p)
}

// Get 查询单条提供方配置
// @Summary 提供方配置详情
// @Tags Providers
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.Response
// @Router /api/providers/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	p, err := h.svc.Get(c.Request.Context(), ident.TenantID, c.Param("id"))
	if err != nil {
		if errors.Is(err, provider.ErrProviderNotFound) {
			common.ResponseNotFound(c, err.Error())
			return
		}
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseSuccess(c, p)
}

// Update 更新提供方配置
// @Summary 更新提供方配置
// @Tags Providers
// @Accept json
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.Response
// @Router /api/providers/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	var req provider.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), ident.TenantID, ident.IsSystemAdmin(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrProviderNotFound):
			common.ResponseNotFound(c, err.Error())
		case errors.Is(err, provider.ErrGlobalForbidden):
			common.ResponseForbidden(c, err.Error())
		default:
			common.ResponseServerError(c, err.Error())
		}
		return
	}

	common.ResponseSuccess(c, p)
}

// Delete 删除提供方配置
// @Summary 删除提供方配置
// @Tags Providers
// @Produce json
// @Param id path string true "配置ID"
// @Success 200 {object} common.Response
// @Router /api/providers/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	err := h.svc.Delete(c.Request.Context(), ident.TenantID, ident.IsSystemAdmin(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, provider.ErrProviderNotFound):
			common.ResponseNotFound(c, err.Error())
		case errors.Is(err, provider.ErrGlobalForbidden):
			common.ResponseForbidden(c, err.Error())
		default:
			common.ResponseServerError(c, err.Error())
		}
		return
	}

	common.ResponseSuccessMessage(c, "删除成功", nil)
}
