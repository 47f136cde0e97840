package payment

import (
	"gocart/internal/domain/order"
	"gocart/internal/domain/payment/gateway"
	"gocart/internal/domain/payment/handler"
	"gocart/internal/domain/payment/service"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 对账回调依赖订单模块，必须晚于它初始化
	return 6
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	gw := gateway.NewClient()
	pService := service.NewPaymentService(order.GetService(), gw)
	pHandler := handler.NewPaymentHandler(pService)

	// 2. 路由注册
	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	// webhook 靠签名鉴权，不走 JWT
	r.POST("/payments/webhook", h.HandleWebhook)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware())
	{
		authed.POST("/payments", h.CreateSession)
		authed.PUT("/payments", h.ConfirmPayment)
	}
}
