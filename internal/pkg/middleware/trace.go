package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceMiddleware 请求追踪 ID
// 支付回调排障依赖它把网关事件和本地订单日志串起来
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 透传上游 TraceID，没有则生成
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set("traceID", traceID)
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}
