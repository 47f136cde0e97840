package service

import (
	"context"
	"testing"

	"gocart/internal/domain/store/model"
	"gocart/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.GlobalConfig.Admin.Emails = "admin@gocart.dev, Ops@gocart.dev"
	m.Run()
}

// MockStoreRepository is a mock of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(store *model.Store) error {
	args := m.Called(store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(id string) (*model.Store, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByUserID(userID string) (*model.Store, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Store), args.Error(1)
}

func (m *MockStoreRepository) GetByUsername(username string) (*model.Store, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Store), args.Error(1)
}

func (m *MockStoreRepository) GetList(status string, offset, limit int) ([]model.Store, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]model.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) UpdateStatus(storeID, status string, isActive bool) error {
	args := m.Called(storeID, status, isActive)
	return args.Error(0)
}

func (m *MockStoreRepository) SetActive(storeID string, isActive bool) error {
	args := m.Called(storeID, isActive)
	return args.Error(0)
}

func (m *MockStoreRepository) GetDashboardData(storeID string) (*model.DashboardData, error) {
	args := m.Called(storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardData), args.Error(1)
}

func approvedStore(id, userID string) *model.Store {
	s := &model.Store{
		UserID: userID,
		Status: model.StoreStatusApproved,
	}
	s.ID = id
	return s
}

func TestResolveCapabilities(t *testing.T) {
	t.Run("Approved store owner is seller", func(t *testing.T) {
		mockRepo := new(MockStoreRepository)
		service := NewStoreService(mockRepo)

		mockRepo.On("GetByUserID", "u1").Return(approvedStore("store-1", "u1"), nil)

		caps, err := service.ResolveCapabilities(context.Background(), "u1", "u1@example.com")

		assert.NoError(t, err)
		assert.Equal(t, "store-1", caps.StoreID)
		assert.False(t, caps.IsAdmin)
	})

	t.Run("Pending store owner is not seller", func(t *testing.T) {
		mockRepo := new(MockStoreRepository)
		service := NewStoreService(mockRepo)

		pending := approvedStore("store-1", "u1")
		pending.Status = model.StoreStatusPending
		mockRepo.On("GetByUserID", "u1").Return(pending, nil)

		caps, err := service.ResolveCapabilities(context.Background(), "u1", "u1@example.com")

		assert.NoError(t, err)
		assert.Empty(t, caps.StoreID)
	})

	t.Run("No store at all is plain buyer", func(t *testing.T) {
		mockRepo := new(MockStoreRepository)
		service := NewStoreService(mockRepo)

		mockRepo.On("GetByUserID", "u1").Return(nil, gorm.ErrRecordNotFound)

		caps, err := service.ResolveCapabilities(context.Background(), "u1", "u1@example.com")

		assert.NoError(t, err)
		assert.Empty(t, caps.StoreID)
		assert.False(t, caps.IsAdmin)
	})

	t.Run("Configured email is admin regardless of case", func(t *testing.T) {
		mockRepo := new(MockStoreRepository)
		service := NewStoreService(mockRepo)

		mockRepo.On("GetByUserID", "u1").Return(nil, gorm.ErrRecordNotFound)

		caps, err := service.ResolveCapabilities(context.Background(), "u1", "OPS@gocart.dev")

		assert.NoError(t, err)
		assert.True(t, caps.IsAdmin)
	})
}

func TestApproveStore(t *testing.T) {
	t.Run("Approval activates store", func(t *testing.T) {
		mockRepo := new(MockStoreRepository)
		service := NewStoreService(mockRepo)

		pending := approvedStore("store-1", "u1")
		pending.Status = model.StoreStatusPending
		mockRepo.On("GetByID", "store-1").Return(pending, nil)
		mockRepo.On("UpdateStatus", "store-1", model.StoreStatusApproved, true).Return(nil)

		err := service.ApproveStore("store-1", true)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Rejection deactivates store", func(t *testing.T) {
		mockRepo := new(MockStoreRepository)
		service := NewStoreService(mockRepo)

		pending := approvedStore("store-1", "u1")
		pending.Status = model.StoreStatusPending
		mockRepo.On("GetByID", "store-1").Return(pending, nil)
		mockRepo.On("UpdateStatus", "store-1", model.StoreStatusRejected, false).Return(nil)

		err := service.ApproveStore("store-1", false)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
