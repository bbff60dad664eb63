package usage

import (
	"backend/internal/ai"
	"backend/internal/auth"
	"backend/internal/common"

	"github.com/gin-gonic/gin"
)

// Handler 用量日志查询 Handler
type Handler struct {
	svc *ai.UsageService
}

// NewHandler 创建 Handler 实例
func NewHandler(svc *ai.UsageService) *Handler {
	return &Handler{svc: svc}
}

// List 查询本租户用量日志
// @Summary 用量日志列表
// @Tags Usage
// @Produce json
// @Param status query string false "状态过滤 success/error"
// @Param since query string false "起始时间 RFC3339"
// @Success 200 {object} common.Response
// @Router /api/usage-logs [get]
func (h *Handler) List(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	var req ai.ListUsageRequest
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

// Totals 本租户 Token 用量汇总
// @Summary 用量汇总
// @Tags Usage
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/usage-logs/totals [get]
func (h *Handler) Totals(c *gin.Context) {
	ident, _ := auth.GetIdentity(c)

	totals, err := h.svc.Totals(c.Request.Context(), ident.TenantID)
	if err != nil {
		common.ResponseServerError(c, err.Error())
		return
	}

	common.ResponseSuccess(c, totals)
}
