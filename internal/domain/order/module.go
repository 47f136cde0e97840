package order

import (
	"gocart/internal/domain/order/handler"
	"gocart/internal/domain/order/repository"
	"gocart/internal/domain/order/service"
	productRepo "gocart/internal/domain/product/repository"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"
	"gocart/internal/pkg/worker"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct {
	service service.OrderService
}

var module = &OrderModule{}

func init() {
	registry.Register(module)
}

// GetService 供 payment 模块做对账回调
func GetService() service.OrderService {
	return module.service
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 5
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	oRepo := repository.NewOrderRepository(ctx.DB)
	pRepo := productRepo.NewProductRepository(ctx.DB)

	// 推送通知走后台工作池，失败进重试队列
	pool := worker.NewWorkerPool(4, 256)
	pool.Start()

	m.service = service.NewOrderService(oRepo, pRepo, pool)
	oHandler := handler.NewOrderHandler(m.service)

	// 2. 路由注册
	setupRoutes(ctx.Router, oHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware())
	{
		// 买家路由
		authed.GET("/orders", h.GetOrders)
		authed.GET("/orders/:id", h.GetOrder)
		authed.POST("/orders/cancel", h.CancelOrder)
		authed.POST("/orders/update-stock", h.CommitStock)

		// 卖家路由
		seller := authed.Group("/store/orders")
		seller.Use(middleware.SellerRequired())
		{
			seller.GET("", h.GetStoreOrders)
			seller.POST("/status", h.UpdateStatus)
			seller.POST("/cancel", h.CancelStoreOrder)
		}
	}
}
