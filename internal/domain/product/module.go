package product

import (
	"gocart/internal/domain/product/handler"
	"gocart/internal/domain/product/repository"
	"gocart/internal/domain/product/service"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ProductModule 商品模块
type ProductModule struct{}

func init() {
	registry.Register(&ProductModule{})
}

func (m *ProductModule) Name() string {
	return "product"
}

func (m *ProductModule) Priority() int {
	return 3
}

func (m *ProductModule) Init(ctx *registry.ModuleContext) error {
	pRepo := repository.NewProductRepository(ctx.DB)
	pService := service.NewProductService(pRepo)
	pHandler := handler.NewProductHandler(pService)

	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProductHandler) {
	// 公开商城路由
	g := r.Group("/products")
	{
		g.GET("/", h.ListProducts)
		g.GET("/:id", h.GetProduct)
	}

	// 卖家路由
	seller := r.Group("/store/products")
	seller.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware(), middleware.SellerRequired())
	{
		seller.POST("/", h.CreateProduct)
		seller.GET("/", h.ListStoreProducts)
		seller.POST("/stock", h.UpdateStock)
	}
}
