package service

import (
	"encoding/json"
	"testing"
	"time"

	"gocart/internal/domain/user/model"
	"gocart/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.GlobalConfig.JWT.Secret = "test_secret_at_least_32_characters_long"
	config.GlobalConfig.JWT.Expire = 24
	m.Run()
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateCart(userID string, cart json.RawMessage) error {
	args := m.Called(userID, cart)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePlan(userID string, plan string, expireAt *time.Time) error {
	args := m.Called(userID, plan, expireAt)
	return args.Error(0)
}

func (m *MockUserRepository) CreateAddress(address *model.Address) error {
	args := m.Called(address)
	return args.Error(0)
}

func (m *MockUserRepository) GetAddress(id string) (*model.Address, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockUserRepository) GetAddressList(userID string) ([]model.Address, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Address), args.Error(1)
}

func createTestUser(id, email string) *model.User {
	u := &model.User{
		Name:  "TestUser",
		Email: email,
		Plan:  model.PlanFree,
		Cart:  json.RawMessage(`{"p1":2}`),
	}
	u.ID = id
	return u
}

func TestLoginOrRegister(t *testing.T) {
	t.Run("New user registered with free plan", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@example.com" && u.Plan == model.PlanFree
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = "new-id"
		})

		token, user, err := service.LoginOrRegister("new@example.com", "New", "")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "new-id", user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Existing user logs in without create", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		existing := createTestUser("u1", "old@example.com")
		mockRepo.On("GetByEmail", "old@example.com").Return(existing, nil)

		token, user, err := service.LoginOrRegister("old@example.com", "Old", "")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "u1", user.ID)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestGetCart(t *testing.T) {
	t.Run("Missing user gets empty cart", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

		cart, err := service.GetCart("ghost")

		assert.NoError(t, err)
		assert.JSONEq(t, "{}", string(cart))
	})

	t.Run("Existing cart returned", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByID", "u1").Return(createTestUser("u1", "a@b.c"), nil)

		cart, err := service.GetCart("u1")

		assert.NoError(t, err)
		assert.JSONEq(t, `{"p1":2}`, string(cart))
	})
}

func TestIsMember(t *testing.T) {
	t.Run("Plus plan with future expiry is member", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		user := createTestUser("u1", "a@b.c")
		user.Plan = model.PlanPlus
		expire := time.Now().Add(time.Hour)
		user.PlanExpireAt = &expire
		mockRepo.On("GetByID", "u1").Return(user, nil)

		isMember, err := service.IsMember("u1")
		assert.NoError(t, err)
		assert.True(t, isMember)
	})

	t.Run("Expired plus plan is not member", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		user := createTestUser("u1", "a@b.c")
		user.Plan = model.PlanPlus
		expire := time.Now().Add(-time.Hour)
		user.PlanExpireAt = &expire
		mockRepo.On("GetByID", "u1").Return(user, nil)

		isMember, err := service.IsMember("u1")
		assert.NoError(t, err)
		assert.False(t, isMember)
	})
}

func TestGetOwnedAddress(t *testing.T) {
	t.Run("Owner gets address", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		addr := &model.Address{UserID: "u1", Name: "Home"}
		addr.ID = "a1"
		mockRepo.On("GetAddress", "a1").Return(addr, nil)

		result, err := service.GetOwnedAddress("u1", "a1")
		assert.NoError(t, err)
		assert.Equal(t, "Home", result.Name)
	})

	t.Run("Other user's address rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		addr := &model.Address{UserID: "u1"}
		addr.ID = "a1"
		mockRepo.On("GetAddress", "a1").Return(addr, nil)

		_, err := service.GetOwnedAddress("intruder", "a1")
		assert.ErrorIs(t, err, ErrNotAddressOwner)
	})
}
