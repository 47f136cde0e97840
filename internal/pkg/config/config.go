package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	App      AppConfig      `mapstructure:"app"`
	Push     PushConfig     `mapstructure:"push"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Stock    StockConfig    `mapstructure:"stock"`
	Settings SettingsConfig `mapstructure:"settings"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Port     string `mapstructure:"port"`
	SSLMode  string `mapstructure:"sslmode"`
	TimeZone string `mapstructure:"timezone"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int64  `mapstructure:"expire"` // 小时
}

type AppConfig struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`
}

type PushConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	AppKey          int64  `mapstructure:"app_key"`
	RegionID        string `mapstructure:"region_id"` // e.g., "cn-hangzhou"
}

// GatewayConfig 支付网关配置 (Razorpay 兼容接口)
type GatewayConfig struct {
	BaseURL       string `mapstructure:"base_url"`       // 网关 API 地址
	KeyID         string `mapstructure:"key_id"`         // 公开 Key，下发给前端
	KeySecret     string `mapstructure:"key_secret"`     // 签名密钥 (orderId|paymentId)
	WebhookSecret string `mapstructure:"webhook_secret"` // Webhook 验签密钥，独立于 KeySecret
	Currency      string `mapstructure:"currency"`
}

// StockConfig 库存策略配置
type StockConfig struct {
	// RestockOnCancel 取消订单时是否回补已扣减的库存
	// 默认关闭：取消不回补，由卖家手动调整
	RestockOnCancel bool `mapstructure:"restock_on_cancel"`
}

// SettingsConfig 站点设置缓存配置
type SettingsConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// AdminConfig 管理员配置
type AdminConfig struct {
	// Emails 管理员邮箱列表，逗号分隔
	Emails string `mapstructure:"emails"`
}

// AdminEmailList 解析管理员邮箱列表
func (c *AdminConfig) AdminEmailList() []string {
	parts := strings.Split(c.Emails, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			emails = append(emails, strings.ToLower(trimmed))
		}
	}
	return emails
}

var GlobalConfig Config

// Validate 验证配置
func (c *Config) Validate() error {
	// JWT 配置验证
	if c.JWT.Secret == "" || c.JWT.Secret == "your_super_secret_key" {
		return errors.New("please set a secure JWT secret in production")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret should be at least 32 characters")
	}

	// 数据库配置验证
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("database configuration is incomplete")
	}

	// Redis 配置验证
	if c.Redis.Addr == "" {
		return errors.New("redis address is required")
	}

	// 支付网关配置验证
	if c.Gateway.KeySecret == "" {
		return errors.New("gateway key secret is required")
	}
	if c.Gateway.WebhookSecret == "" {
		return errors.New("gateway webhook secret is required")
	}

	return nil
}

// LoadConfig 加载配置
func LoadConfig() {
	// 获取环境变量，默认为dev
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	// 根据环境选择配置文件
	configName := "config"
	if env != "" && env != "dev" {
		configName = "config." + env
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// 设置默认值
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("jwt.expire", 24)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("gateway.base_url", "https://api.razorpay.com/v1")
	viper.SetDefault("gateway.currency", "INR")
	viper.SetDefault("stock.restock_on_cancel", false)
	viper.SetDefault("settings.cache_ttl_seconds", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Config file not found, using defaults or env vars: %v", err)
	}

	// 绑定环境变量
	viper.AutomaticEnv()

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		log.Fatalf("Unable to decode into struct: %v", err)
	}

	// 手动覆盖，以防 viper 无法正确解析复杂结构或环境变量
	if host := os.Getenv("DB_HOST"); host != "" {
		GlobalConfig.Database.Host = host
	}
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		GlobalConfig.Redis.Addr = redisAddr
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		GlobalConfig.JWT.Secret = jwtSecret
	}
	if keySecret := os.Getenv("GATEWAY_KEY_SECRET"); keySecret != "" {
		GlobalConfig.Gateway.KeySecret = keySecret
	}
	if webhookSecret := os.Getenv("GATEWAY_WEBHOOK_SECRET"); webhookSecret != "" {
		GlobalConfig.Gateway.WebhookSecret = webhookSecret
	}

	// 验证配置
	if err := GlobalConfig.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	log.Printf("Configuration loaded and validated successfully. Environment: %s", GlobalConfig.App.Env)
}
