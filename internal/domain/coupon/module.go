package coupon

import (
	"gocart/internal/domain/coupon/handler"
	"gocart/internal/domain/coupon/repository"
	"gocart/internal/domain/coupon/service"
	orderRepo "gocart/internal/domain/order/repository"
	userRepo "gocart/internal/domain/user/repository"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CouponModule 优惠券模块
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 4
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入：资格判定需要用户画像和历史订单数
	cRepo := repository.NewCouponRepository(ctx.DB)
	uRepo := userRepo.NewUserRepository(ctx.DB)
	oRepo := orderRepo.NewOrderRepository(ctx.DB)

	cService := service.NewCouponService(cRepo, uRepo, oRepo, ctx.Cache)
	cHandler := handler.NewCouponHandler(cService)

	// 2. 路由注册
	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler) {
	r.GET("/coupons", h.GetPublicCoupons)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware())
	{
		authed.POST("/coupons/validate", h.ValidateCoupon)

		admin := authed.Group("/admin/coupons")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("", h.ListCoupons)
			admin.POST("", h.CreateCoupon)
			admin.DELETE("/:code", h.DeleteCoupon)
		}
	}
}
