package user

import (
	"gocart/internal/domain/user/handler"
	"gocart/internal/domain/user/repository"
	"gocart/internal/domain/user/service"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，因为其他模块依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewUserService(userRepo)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateMe)
		userGroup.GET("/me/cart", h.GetCart)
		userGroup.POST("/me/cart", h.SaveCart)
		userGroup.GET("/me/addresses", h.GetAddresses)
		userGroup.POST("/me/addresses", h.CreateAddress)
	}

	// 管理员路由
	adminGroup := r.Group("/admin/users")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware(), middleware.AdminRequired())
	{
		adminGroup.GET("/", h.GetUsers)
	}
}
