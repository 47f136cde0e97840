package rating

import (
	"gocart/internal/domain/order"
	"gocart/internal/domain/rating/handler"
	"gocart/internal/domain/rating/repository"
	"gocart/internal/domain/rating/service"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// RatingModule 评分模块
type RatingModule struct{}

func init() {
	registry.Register(&RatingModule{})
}

func (m *RatingModule) Name() string {
	return "rating"
}

func (m *RatingModule) Priority() int {
	// 评分校验依赖订单模块
	return 8
}

func (m *RatingModule) Init(ctx *registry.ModuleContext) error {
	rRepo := repository.NewRatingRepository(ctx.DB)
	rService := service.NewRatingService(rRepo, order.GetService())
	rHandler := handler.NewRatingHandler(rService)

	setupRoutes(ctx.Router, rHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.RatingHandler) {
	r.GET("/products/:id/ratings", h.GetProductRatings)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware())
	{
		authed.POST("/ratings", h.RateProduct)
		authed.GET("/ratings/me", h.GetMyRatings)
	}
}
