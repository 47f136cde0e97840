package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gocart/internal/domain/settings/model"
	"gocart/internal/domain/settings/repository"
	"gocart/internal/pkg/config"
	"gocart/pkg/cache"
	"gocart/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingService interface {
	GetSetting(key string) (*model.Setting, error)
	GetAllSettings() ([]model.Setting, error)
	UpdateSetting(key string, value json.RawMessage) (*model.Setting, error)
}

type settingService struct {
	repo  repository.SettingRepository
	cache cache.CacheService
}

func NewSettingService(repo repository.SettingRepository, c cache.CacheService) SettingService {
	return &settingService{repo: repo, cache: c}
}

func (s *settingService) cacheTTL() time.Duration {
	return time.Duration(config.GlobalConfig.Settings.CacheTTLSeconds) * time.Second
}

// GetSetting 读穿缓存，TTL 可配置
// 设置读多写少，允许短暂读到旧值换取每次请求省一次查库
func (s *settingService) GetSetting(key string) (*model.Setting, error) {
	ctx := context.Background()
	cacheKey := "setting:" + key

	var cached model.Setting
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("setting cache read failed", zap.String("key", key), zap.Error(err))
	}

	setting, err := s.repo.GetByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, setting, s.cacheTTL()); err != nil {
		logger.Log.Warn("setting cache write failed", zap.String("key", key), zap.Error(err))
	}

	return setting, nil
}

func (s *settingService) GetAllSettings() ([]model.Setting, error) {
	return s.repo.GetAll()
}

// UpdateSetting 写库后立即失效缓存，下一次读回源拿新值
func (s *settingService) UpdateSetting(key string, value json.RawMessage) (*model.Setting, error) {
	setting := &model.Setting{Key: key, Value: value}
	if err := s.repo.Upsert(setting); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(context.Background(), "setting:"+key); err != nil {
		logger.Log.Warn("setting cache invalidation failed", zap.String("key", key), zap.Error(err))
	}

	return s.repo.GetByKey(key)
}
