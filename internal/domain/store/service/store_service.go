package service

import (
	"context"
	"errors"
	"strings"

	"gocart/internal/domain/store/model"
	"gocart/internal/domain/store/repository"
	"gocart/internal/pkg/config"
	"gocart/internal/pkg/middleware"

	"gorm.io/gorm"
)

var (
	ErrStoreNotFound  = errors.New("store not found")
	ErrStoreExists    = errors.New("user already has a store")
	ErrUsernameTaken  = errors.New("store username already taken")
	ErrInvalidStatus  = errors.New("invalid store status")
)

// StoreService 店铺服务接口
type StoreService interface {
	CreateStore(userID string, store *model.Store) (*model.Store, error)
	GetStore(id string) (*model.Store, error)
	GetSellerStoreID(userID string) (string, error)
	GetDashboard(storeID string) (*model.DashboardData, error)
	ListStores(status string, page, limit int) ([]model.Store, int64, error)
	ApproveStore(storeID string, approve bool) error
	ToggleActive(storeID string) (*model.Store, error)

	// ResolveCapabilities 实现 middleware.CapabilityResolver
	ResolveCapabilities(ctx context.Context, userID, email string) (middleware.Capabilities, error)
}

type storeService struct {
	repo repository.StoreRepository
}

func NewStoreService(repo repository.StoreRepository) StoreService {
	return &storeService{repo: repo}
}

// CreateStore 申请开店，初始状态 pending，等待管理员审批
func (s *storeService) CreateStore(userID string, store *model.Store) (*model.Store, error) {
	if _, err := s.repo.GetByUserID(userID); err == nil {
		return nil, ErrStoreExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(store.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	store.UserID = userID
	store.Status = model.StoreStatusPending
	store.IsActive = false

	if err := s.repo.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStore(id string) (*model.Store, error) {
	store, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// GetSellerStoreID 返回用户已批准店铺的 ID，非卖家返回空串
func (s *storeService) GetSellerStoreID(userID string) (string, error) {
	store, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	if store.Status == model.StoreStatusApproved {
		return store.ID, nil
	}
	return "", nil
}

func (s *storeService) GetDashboard(storeID string) (*model.DashboardData, error) {
	return s.repo.GetDashboardData(storeID)
}

func (s *storeService) ListStores(status string, page, limit int) ([]model.Store, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetList(status, (page-1)*limit, limit)
}

// ApproveStore 管理员审批：批准同时激活，拒绝则停用
func (s *storeService) ApproveStore(storeID string, approve bool) error {
	if _, err := s.GetStore(storeID); err != nil {
		return err
	}

	if approve {
		return s.repo.UpdateStatus(storeID, model.StoreStatusApproved, true)
	}
	return s.repo.UpdateStatus(storeID, model.StoreStatusRejected, false)
}

func (s *storeService) ToggleActive(storeID string) (*model.Store, error) {
	store, err := s.GetStore(storeID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(storeID, !store.IsActive); err != nil {
		return nil, err
	}
	store.IsActive = !store.IsActive
	return store, nil
}

// ResolveCapabilities 将已验证身份映射为能力集合 {buyer, seller(storeId), admin}
// 每个请求只调用一次，结果写入请求上下文
func (s *storeService) ResolveCapabilities(ctx context.Context, userID, email string) (middleware.Capabilities, error) {
	caps := middleware.Capabilities{UserID: userID, Email: email}

	storeID, err := s.GetSellerStoreID(userID)
	if err != nil {
		return caps, err
	}
	caps.StoreID = storeID

	// 管理员由配置的邮箱列表判定
	lowered := strings.ToLower(email)
	for _, adminEmail := range config.GlobalConfig.Admin.AdminEmailList() {
		if lowered == adminEmail {
			caps.IsAdmin = true
			break
		}
	}

	return caps, nil
}
