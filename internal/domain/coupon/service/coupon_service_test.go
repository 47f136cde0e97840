package service

import (
	"context"
	"testing"
	"time"

	"gocart/internal/domain/coupon/model"
	userModel "gocart/internal/domain/user/model"
	"gocart/pkg/cache"
	"gocart/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

// MockCouponRepository is a mock of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(coupon *model.Coupon) error {
	args := m.Called(coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) GetByCode(code string) (*model.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetList(offset, limit int) ([]model.Coupon, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *MockCouponRepository) DeleteByCode(code string) (int64, error) {
	args := m.Called(code)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserProvider is a mock of UserProvider
type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

// MockOrderCounter is a mock of OrderCounter
type MockOrderCounter struct {
	mock.Mock
}

func (m *MockOrderCounter) CountByUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

// noopCache 直接穿透到仓库的缓存实现
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, key string) error               { return nil }
func (noopCache) Exists(ctx context.Context, key string) (bool, error)       { return false, nil }
func (noopCache) InvalidatePattern(ctx context.Context, pattern string) error { return nil }

func validCoupon(code string) *model.Coupon {
	return &model.Coupon{
		Code:            code,
		DiscountPercent: 10,
		ExpiresAt:       time.Now().Add(24 * time.Hour),
	}
}

func plusUser(id string) *userModel.User {
	expire := time.Now().Add(30 * 24 * time.Hour)
	u := &userModel.User{
		Plan:         "plus",
		PlanExpireAt: &expire,
	}
	u.ID = id
	return u
}

func freeUser(id string) *userModel.User {
	u := &userModel.User{Plan: "free"}
	u.ID = id
	return u
}

func TestValidateCoupon(t *testing.T) {
	t.Run("Unrestricted coupon applies to anyone", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, new(MockUserProvider), new(MockOrderCounter), noopCache{})

		mockRepo.On("GetByCode", "SAVE10").Return(validCoupon("SAVE10"), nil)

		coupon, err := service.ValidateCoupon("u1", "save10")

		assert.NoError(t, err)
		assert.Equal(t, "SAVE10", coupon.Code)
	})

	t.Run("Expired coupon indistinguishable from missing", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, new(MockUserProvider), new(MockOrderCounter), noopCache{})

		expired := validCoupon("OLD")
		expired.ExpiresAt = time.Now().Add(-time.Hour)
		mockRepo.On("GetByCode", "OLD").Return(expired, nil)

		_, err := service.ValidateCoupon("u1", "OLD")
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("Unknown code not found", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		service := NewCouponService(mockRepo, new(MockUserProvider), new(MockOrderCounter), noopCache{})

		mockRepo.On("GetByCode", "NOPE").Return(nil, gorm.ErrRecordNotFound)

		_, err := service.ValidateCoupon("u1", "NOPE")
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("New-user coupon rejects user with order history", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		mockOrders := new(MockOrderCounter)
		service := NewCouponService(mockRepo, new(MockUserProvider), mockOrders, noopCache{})

		c := validCoupon("WELCOME")
		c.ForNewUser = true
		mockRepo.On("GetByCode", "WELCOME").Return(c, nil)
		mockOrders.On("CountByUser", "u1").Return(int64(3), nil)

		_, err := service.ValidateCoupon("u1", "WELCOME")
		assert.ErrorIs(t, err, ErrCouponIneligible)
	})

	t.Run("New-user coupon accepts user with zero orders", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		mockOrders := new(MockOrderCounter)
		service := NewCouponService(mockRepo, new(MockUserProvider), mockOrders, noopCache{})

		c := validCoupon("WELCOME")
		c.ForNewUser = true
		mockRepo.On("GetByCode", "WELCOME").Return(c, nil)
		mockOrders.On("CountByUser", "u1").Return(int64(0), nil)

		coupon, err := service.ValidateCoupon("u1", "WELCOME")
		assert.NoError(t, err)
		assert.True(t, coupon.ForNewUser)
	})

	t.Run("Member coupon rejects free-plan user", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		mockUsers := new(MockUserProvider)
		service := NewCouponService(mockRepo, mockUsers, new(MockOrderCounter), noopCache{})

		c := validCoupon("PLUS20")
		c.ForMember = true
		mockRepo.On("GetByCode", "PLUS20").Return(c, nil)
		mockUsers.On("GetByID", "u1").Return(freeUser("u1"), nil)

		_, err := service.ValidateCoupon("u1", "PLUS20")
		assert.ErrorIs(t, err, ErrCouponIneligible)
	})

	t.Run("Member coupon accepts plus-plan user", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		mockUsers := new(MockUserProvider)
		service := NewCouponService(mockRepo, mockUsers, new(MockOrderCounter), noopCache{})

		c := validCoupon("PLUS20")
		c.ForMember = true
		mockRepo.On("GetByCode", "PLUS20").Return(c, nil)
		mockUsers.On("GetByID", "u1").Return(plusUser("u1"), nil)

		coupon, err := service.ValidateCoupon("u1", "PLUS20")
		assert.NoError(t, err)
		assert.True(t, coupon.ForMember)
	})

	t.Run("Both flags: satisfying either condition is enough", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		mockUsers := new(MockUserProvider)
		mockOrders := new(MockOrderCounter)
		service := NewCouponService(mockRepo, mockUsers, mockOrders, noopCache{})

		c := validCoupon("VIP")
		c.ForNewUser = true
		c.ForMember = true
		mockRepo.On("GetByCode", "VIP").Return(c, nil)

		// 新用户但非会员：可用
		mockOrders.On("CountByUser", "u1").Return(int64(0), nil)
		mockUsers.On("GetByID", "u1").Return(freeUser("u1"), nil)
		_, err := service.ValidateCoupon("u1", "VIP")
		assert.NoError(t, err)

		// 会员但有历史订单：同样可用
		mockOrders.On("CountByUser", "u2").Return(int64(3), nil)
		mockUsers.On("GetByID", "u2").Return(plusUser("u2"), nil)
		_, err = service.ValidateCoupon("u2", "VIP")
		assert.NoError(t, err)
	})

	t.Run("Both flags: neither condition satisfied rejects", func(t *testing.T) {
		mockRepo := new(MockCouponRepository)
		mockUsers := new(MockUserProvider)
		mockOrders := new(MockOrderCounter)
		service := NewCouponService(mockRepo, mockUsers, mockOrders, noopCache{})

		c := validCoupon("VIP")
		c.ForNewUser = true
		c.ForMember = true
		mockRepo.On("GetByCode", "VIP").Return(c, nil)
		mockOrders.On("CountByUser", "u1").Return(int64(3), nil)
		mockUsers.On("GetByID", "u1").Return(freeUser("u1"), nil)

		_, err := service.ValidateCoupon("u1", "VIP")
		assert.ErrorIs(t, err, ErrCouponIneligible)
	})
}

func TestCreateCoupon(t *testing.T) {
	mockRepo := new(MockCouponRepository)
	service := NewCouponService(mockRepo, new(MockUserProvider), new(MockOrderCounter), noopCache{})

	t.Run("Code normalized to uppercase", func(t *testing.T) {
		mockRepo.On("Create", mock.MatchedBy(func(c *model.Coupon) bool {
			return c.Code == "SAVE10"
		})).Return(nil).Once()

		err := service.CreateCoupon(&model.Coupon{
			Code:            " save10 ",
			DiscountPercent: 10,
			ExpiresAt:       time.Now().Add(time.Hour),
		})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Discount outside 1-100 rejected", func(t *testing.T) {
		err := service.CreateCoupon(&model.Coupon{
			Code:            "BAD",
			DiscountPercent: 150,
			ExpiresAt:       time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidCoupon)
	})

	t.Run("Already-expired coupon rejected", func(t *testing.T) {
		err := service.CreateCoupon(&model.Coupon{
			Code:            "PAST",
			DiscountPercent: 10,
			ExpiresAt:       time.Now().Add(-time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidCoupon)
	})
}
