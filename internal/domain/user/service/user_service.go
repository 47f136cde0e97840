package service

import (
	"encoding/json"
	"errors"
	"time"

	"gocart/internal/domain/user/model"
	"gocart/internal/domain/user/repository"
	"gocart/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrNotAddressOwner = errors.New("address does not belong to user")
)

// UserService 用户服务接口
type UserService interface {
	LoginOrRegister(email, name, image string) (string, *model.User, error)
	GetUser(id string) (*model.User, error)
	UpdateUser(id string, name, image string) (*model.User, error)
	GetCart(userID string) (json.RawMessage, error)
	SaveCart(userID string, cart json.RawMessage) error
	IsMember(userID string) (bool, error)
	UpgradePlan(userID string, duration time.Duration) error
	GetUsers(page, limit int) ([]model.User, int64, error)
	CreateAddress(userID string, address *model.Address) error
	GetAddresses(userID string) ([]model.Address, error)
	GetOwnedAddress(userID, addressID string) (*model.Address, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// LoginOrRegister 登录或注册
// 身份校验由外部身份系统完成，这里按邮箱 upsert 并签发本系统 Token
func (s *userService) LoginOrRegister(email, name, image string) (string, *model.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不存在则注册
			user = &model.User{
				Name:  name,
				Email: email,
				Image: image,
				Plan:  model.PlanFree,
				Cart:  json.RawMessage("{}"),
			}
			if err := s.repo.Create(user); err != nil {
				return "", nil, err
			}
		} else {
			return "", nil, err
		}
	}

	token, _, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser 更新用户资料
func (s *userService) UpdateUser(id string, name, image string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Image = image

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetCart 获取购物车
func (s *userService) GetCart(userID string) (json.RawMessage, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户尚未落库时返回空购物车
			return json.RawMessage("{}"), nil
		}
		return nil, err
	}
	if len(user.Cart) == 0 {
		return json.RawMessage("{}"), nil
	}
	return user.Cart, nil
}

// SaveCart 保存购物车
func (s *userService) SaveCart(userID string, cart json.RawMessage) error {
	return s.repo.UpdateCart(userID, cart)
}

// IsMember 是否为有效会员
func (s *userService) IsMember(userID string) (bool, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return false, err
	}
	return user.IsMember(), nil
}

// UpgradePlan 升级会员
func (s *userService) UpgradePlan(userID string, duration time.Duration) error {
	expireAt := time.Now().Add(duration)
	return s.repo.UpdatePlan(userID, model.PlanPlus, &expireAt)
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

// CreateAddress 新增收货地址
func (s *userService) CreateAddress(userID string, address *model.Address) error {
	address.UserID = userID
	return s.repo.CreateAddress(address)
}

// GetAddresses 获取地址列表
func (s *userService) GetAddresses(userID string) ([]model.Address, error) {
	return s.repo.GetAddressList(userID)
}

// GetOwnedAddress 获取并校验地址归属
func (s *userService) GetOwnedAddress(userID, addressID string) (*model.Address, error) {
	address, err := s.repo.GetAddress(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrNotAddressOwner
	}
	return address, nil
}
