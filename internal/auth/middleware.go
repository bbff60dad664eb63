package auth

import (
	"errors"

	"backend/internal/common"

	"github.com/gin-gonic/gin"
)

// gin 上下文键
const (
	IdentityKey = "identity"
	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
)

// Middleware JWT 认证中间件（管理接口使用）
// 解析身份失败直接以对应 HTTP 状态码中断；对话接口自行解析身份以保持带内错误契约
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := svc.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, ErrProfileNotFound):
				common.AbortWithError(c, common.CodeForbidden, err.Error())
			case errors.Is(err, ErrUnauthenticated):
				common.AbortWithError(c, common.CodeUnauthorized, err.Error())
			default:
				common.AbortWithError(c, common.CodeInternalError, "身份解析失败")
			}
			return
		}

		c.Set(IdentityKey, ident)
		c.Set(TenantIDKey, ident.TenantID)
		c.Set(UserIDKey, ident.UserID)

		c.Next()
	}
}

// GetIdentity 从 gin 上下文取出已解析的身份
func GetIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*Identity)
	return ident, ok
}

// RequireSystemAdmin 平台管理员校验中间件
func RequireSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok || !ident.IsSystemAdmin() {
			common.AbortWithError(c, common.CodeForbidden, "需要平台管理员权限")
			return
		}
		c.Next()
	}
}
