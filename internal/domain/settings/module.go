package settings

import (
	"gocart/internal/domain/settings/handler"
	"gocart/internal/domain/settings/repository"
	"gocart/internal/domain/settings/service"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// SettingsModule 站点设置模块
type SettingsModule struct{}

func init() {
	registry.Register(&SettingsModule{})
}

func (m *SettingsModule) Name() string {
	return "settings"
}

func (m *SettingsModule) Priority() int {
	return 7
}

func (m *SettingsModule) Init(ctx *registry.ModuleContext) error {
	sRepo := repository.NewSettingRepository(ctx.DB)
	sService := service.NewSettingService(sRepo, ctx.Cache)
	sHandler := handler.NewSettingHandler(sService)

	fRepo := repository.NewFaqRepository(ctx.DB)
	fService := service.NewFaqService(fRepo, ctx.Cache)
	fHandler := handler.NewFaqHandler(fService)

	setupRoutes(ctx.Router, sHandler, fHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SettingHandler, f *handler.FaqHandler) {
	r.GET("/settings/:key", h.GetSetting)
	r.GET("/faq", f.ListFaqs)

	admin := r.Group("/admin/settings")
	admin.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware(), middleware.AdminRequired())
	{
		admin.GET("", h.GetAllSettings)
		admin.PUT("/:key", h.UpdateSetting)
	}

	adminFaq := r.Group("/admin/faq")
	adminFaq.Use(middleware.AuthMiddleware(), middleware.CapabilityMiddleware(), middleware.AdminRequired())
	{
		adminFaq.POST("", f.CreateFaq)
		adminFaq.DELETE("/:id", f.DeleteFaq)
	}
}
