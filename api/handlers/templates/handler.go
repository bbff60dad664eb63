package templates

import (
	"errors"

	"backend/internal/common"
	"backend/internal/prompt"

	"github.com/gin-gonic/gin"
)

// Handler 提示词模板管理 Handler
type Handler struct {
	svc *prompt.Service
}

// NewHandler 创建 Handler 实例
func NewHandler(svc *prompt.Service) *Handler {
	return &Handler{svc: svc}
}

// List 查询模板列表
// @Summary 模板列表
// @Tags Templates
// @Produce json
// @Param category query string false "分类过滤"
// @Param active_only query bool false "仅活跃"
// @Success 200 {object} common.Response
// @Router /api/templates [get]
func (h *Handler) List(c *gin.Context) {
	var req prompt.ListTemplatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	items, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseList(c, items, total, &req.PaginationRequest)
}

// Create 创建模板（同名旧版本自动停用）
// @Summary 创建模板
// @Tags Templates
// @Accept json
// @Produce json
// @Success 201 {object} common.Response
// @Router /api/templates [post]
func (h *Handler) Create(c *gin.Context) {
	var req prompt.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	tpl, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseCreated(c, tpl)
}

// Get 查询单条模板
// @Summary 模板详情
// @Tags Templates
// @Produce json
// @Param id path string true "模板ID"
// @Success 200 {object} common.Response
// @Router /api/templates/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	tpl, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, prompt.ErrTemplateNotFound) {
			common.ResponseNotFound(c, err.Error())
			return
		}
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseSuccess(c, tpl)
}

// Update 更新模板
// @Summary 更新模板
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "模板ID"
// @Success 200 {object} common.Response
// @Router /api/templates/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req prompt.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, err.Error())
		return
	}

	tpl, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, prompt.ErrTemplateNotFound) {
			common.ResponseNotFound(c, err.Error())
			return
		}
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseSuccess(c, tpl)
}

// Delete 删除模板
// @Summary 删除模板
// @Tags Templates
// @Produce json
// @Param id path string true "模板ID"
// @Success 200 {object} common.Response
// @Router /api/templates/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, prompt.ErrTemplateNotFound) {
			common.ResponseNotFound(c, err.Error())
			return
		}
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseSuccessMessage(c, "删除成功", nil)
}
