package repository

import (
	"encoding/json"
	"time"

	"gocart/internal/domain/user/model"

	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetList(offset, limit int) ([]model.User, int64, error)
	Update(user *model.User) error
	UpdateCart(userID string, cart json.RawMessage) error
	UpdatePlan(userID string, plan string, expireAt *time.Time) error
	CreateAddress(address *model.Address) error
	GetAddress(id string) (*model.Address, error)
	GetAddressList(userID string) ([]model.Address, error)
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetList 获取用户列表（分页）
func (r *userRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户
func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// UpdateCart 更新购物车
func (r *userRepository) UpdateCart(userID string, cart json.RawMessage) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("cart", cart).Error
}

// UpdatePlan 更新会员套餐
func (r *userRepository) UpdatePlan(userID string, plan string, expireAt *time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan":           plan,
		"plan_expire_at": expireAt,
	}).Error
}

// CreateAddress 新增收货地址
func (r *userRepository) CreateAddress(address *model.Address) error {
	return r.db.Create(address).Error
}

// GetAddress 获取单个地址
func (r *userRepository) GetAddress(id string) (*model.Address, error) {
	var address model.Address
	if err := r.db.Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// GetAddressList 获取用户地址列表
func (r *userRepository) GetAddressList(userID string) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&addresses).Error
	return addresses, err
}
