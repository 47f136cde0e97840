package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocart/internal/pkg/config"
	"gocart/internal/pkg/middleware"
	"gocart/internal/pkg/push"
	"gocart/internal/pkg/registry"
	"gocart/pkg/cache"
	"gocart/pkg/database"
	"gocart/pkg/logger"

	// 各业务模块通过 init() 注册到 registry
	_ "gocart/internal/domain/common"
	_ "gocart/internal/domain/coupon"
	_ "gocart/internal/domain/order"
	_ "gocart/internal/domain/payment"
	_ "gocart/internal/domain/product"
	_ "gocart/internal/domain/rating"
	_ "gocart/internal/domain/settings"
	_ "gocart/internal/domain/store"
	_ "gocart/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title GoCart API
// @version 1.0
// @description 多租户电商订单与库存服务
// @BasePath /
func main() {
	// 1. 配置与日志
	config.LoadConfig()
	logger.Init(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	// 2. 基础设施
	db := database.InitDatabase()
	rdb := database.InitRedis()
	cacheService := cache.NewRedisCache(rdb)

	if err := push.InitPushService(); err != nil {
		// 推送不可用只降级通知能力，不阻塞启动
		logger.Log.Warn("push service unavailable", zap.Error(err))
	}

	// 3. HTTP 引擎
	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Razorpay-Signature"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	// 4. 模块初始化 (按 Priority 升序)
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Cache:  cacheService,
		Router: r,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("module initialization failed", zap.Error(err))
	}

	// 5. 启动与优雅退出
	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}
