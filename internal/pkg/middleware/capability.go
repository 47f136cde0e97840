package middleware

import (
	"context"
	"net/http"

	"gocart/pkg/response"

	"github.com/gin-gonic/gin"
)

// Capabilities 当前请求者的能力集合
// 每个请求只解析一次，写入 gin.Context，后续 handler 不再重复查库
type Capabilities struct {
	UserID  string
	Email   string
	IsAdmin bool
	StoreID string // 已批准店铺 ID，为空表示非卖家
}

// CapabilityResolver 根据已验证身份解析能力集合
type CapabilityResolver interface {
	ResolveCapabilities(ctx context.Context, userID, email string) (Capabilities, error)
}

// 全局能力解析器，由 store 模块初始化时注入
var capabilityResolver CapabilityResolver

// SetCapabilityResolver 注入能力解析器
func SetCapabilityResolver(r CapabilityResolver) {
	capabilityResolver = r
}

const capabilitiesKey = "capabilities"

// CapabilityMiddleware 能力解析中间件，依赖 AuthMiddleware 在前
func CapabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unauthorized")
			c.Abort()
			return
		}

		email, _ := c.Get("email")
		emailStr, _ := email.(string)

		caps := Capabilities{UserID: userID, Email: emailStr}
		if capabilityResolver != nil {
			resolved, err := capabilityResolver.ResolveCapabilities(c.Request.Context(), userID, emailStr)
			if err != nil {
				response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to resolve capabilities")
				c.Abort()
				return
			}
			caps = resolved
		}

		c.Set(capabilitiesKey, caps)
		c.Next()
	}
}

// GetCapabilities 从上下文读取能力集合
func GetCapabilities(c *gin.Context) (Capabilities, bool) {
	val, exists := c.Get(capabilitiesKey)
	if !exists {
		return Capabilities{}, false
	}
	caps, ok := val.(Capabilities)
	return caps, ok
}

// SellerRequired 卖家权限中间件：要求解析出已批准店铺
func SellerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := GetCapabilities(c)
		if !ok || caps.StoreID == "" {
			response.Error(c, http.StatusForbidden, response.ErrStoreNotApproved, "Seller permission required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired 管理员权限中间件
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caps, ok := GetCapabilities(c)
		if !ok || !caps.IsAdmin {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			c.Abort()
			return
		}
		c.Next()
	}
}
