package repository

import (
	orderModel "gocart/internal/domain/order/model"
	productModel "gocart/internal/domain/product/model"
	"gocart/internal/domain/store/model"

	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	GetByID(id string) (*model.Store, error)
	GetByUserID(userID string) (*model.Store, error)
	GetByUsername(username string) (*model.Store, error)
	GetList(status string, offset, limit int) ([]model.Store, int64, error)
	UpdateStatus(storeID, status string, isActive bool) error
	SetActive(storeID string, isActive bool) error
	GetDashboardData(storeID string) (*model.DashboardData, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepository) GetByID(id string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetByUserID(userID string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("user_id = ?", userID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetByUsername(username string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("username = ?", username).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetList(status string, offset, limit int) ([]model.Store, int64, error) {
	var stores []model.Store
	var total int64

	query := r.db.Model(&model.Store{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&stores).Error; err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

func (r *storeRepository) UpdateStatus(storeID, status string, isActive bool) error {
	return r.db.Model(&model.Store{}).Where("id = ?", storeID).Updates(map[string]interface{}{
		"status":    status,
		"is_active": isActive,
	}).Error
}

func (r *storeRepository) SetActive(storeID string, isActive bool) error {
	return r.db.Model(&model.Store{}).Where("id = ?", storeID).
		UpdateColumn("is_active", isActive).Error
}

// GetDashboardData 卖家看板聚合：订单量、收入 (不含已取消)、商品数
func (r *storeRepository) GetDashboardData(storeID string) (*model.DashboardData, error) {
	data := &model.DashboardData{}

	type orderAgg struct {
		Count int64
		Total float64
	}

	var active orderAgg
	if err := r.db.Model(&orderModel.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("store_id = ? AND is_cancelled = false", storeID).
		Scan(&active).Error; err != nil {
		return nil, err
	}

	var cancelled orderAgg
	if err := r.db.Model(&orderModel.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("store_id = ? AND is_cancelled = true", storeID).
		Scan(&cancelled).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&productModel.Product{}).
		Where("store_id = ?", storeID).
		Count(&data.TotalProducts).Error; err != nil {
		return nil, err
	}

	data.TotalOrders = active.Count
	data.TotalEarnings = active.Total
	data.CancelledOrdersCount = cancelled.Count
	data.CancelledEarnings = cancelled.Total

	return data, nil
}
