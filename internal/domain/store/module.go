package store

import (
	"gocart/internal/domain/store/handler"
	"gocart/internal/domain/store/repository"
	"gocart/internal/domain/store/service"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// StoreModule 店铺模块
type StoreModule struct{}

func init() {
	registry.Register(&StoreModule{})
}

func (m *StoreModule) Name() string {
	return "store"
}

func (m *StoreModule) Priority() int {
	// 店铺模块提供能力解析器，需要先于依赖卖家鉴权的模块初始化
	return 2
}

func (m *StoreModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	sRepo := repository.NewStoreRepository(ctx.DB)
	sService := service.NewStoreService(sRepo)
	sHandler := handler.NewStoreHandler(sService)

	// 2. 注册能力解析器 (admin-by-email + seller-by-approved-store)
	middleware.SetCapabilityResolver(sService)

	// 3. 路由注册
	setupRoutes(ctx.Router, sHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.StoreHandler) {
	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware())
	{
		authed.POST("/stores", h.CreateStore)
		authed.GET("/store/is-seller", h.IsSeller)

		// 卖家路由
		seller := authed.Group("/store")
		seller.Use(middleware.SellerRequired())
		{
			seller.GET("/dashboard", h.Dashboard)
		}

		// 管理员路由
		admin := authed.Group("/admin/stores")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("/", h.ListStores)
			admin.POST("/:id/approve", h.ApproveStore)
			admin.POST("/:id/toggle", h.ToggleActive)
		}
	}
}
