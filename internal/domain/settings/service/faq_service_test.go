package service

import (
	"context"
	"testing"
	"time"

	"gocart/internal/domain/settings/model"
	"gocart/pkg/cache"
	"gocart/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

type MockFaqRepository struct {
	mock.Mock
}

func (m *MockFaqRepository) Create(faq *model.Faq) error {
	args := m.Called(faq)
	return args.Error(0)
}

func (m *MockFaqRepository) GetAll() ([]model.Faq, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Faq), args.Error(1)
}

func (m *MockFaqRepository) DeleteByID(id string) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

// noopCache 全部未命中，让服务走回源路径
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, key string) error            { return nil }
func (noopCache) Exists(ctx context.Context, key string) (bool, error)   { return false, nil }
func (noopCache) InvalidatePattern(ctx context.Context, pattern string) error {
	return nil
}

func TestFaqService(t *testing.T) {
	t.Run("List returns repository entries on cache miss", func(t *testing.T) {
		mockRepo := new(MockFaqRepository)
		service := NewFaqService(mockRepo, noopCache{})

		mockRepo.On("GetAll").Return([]model.Faq{
			{Question: "How do I cancel an order?", Answer: "From the order page before it ships."},
		}, nil)

		faqs, err := service.ListFaqs()
		assert.NoError(t, err)
		assert.Len(t, faqs, 1)
	})

	t.Run("Create rejects blank question or answer", func(t *testing.T) {
		mockRepo := new(MockFaqRepository)
		service := NewFaqService(mockRepo, noopCache{})

		_, err := service.CreateFaq("  ", "answer")
		assert.ErrorIs(t, err, ErrEmptyFaq)

		_, err = service.CreateFaq("question", "")
		assert.ErrorIs(t, err, ErrEmptyFaq)

		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Create trims fields before persisting", func(t *testing.T) {
		mockRepo := new(MockFaqRepository)
		service := NewFaqService(mockRepo, noopCache{})

		mockRepo.On("Create", mock.MatchedBy(func(f *model.Faq) bool {
			return f.Question == "Is shipping free?" && f.Answer == "Above the threshold, yes."
		})).Return(nil)

		faq, err := service.CreateFaq(" Is shipping free? ", " Above the threshold, yes. ")
		assert.NoError(t, err)
		assert.Equal(t, "Is shipping free?", faq.Question)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Delete of unknown id reports not found", func(t *testing.T) {
		mockRepo := new(MockFaqRepository)
		service := NewFaqService(mockRepo, noopCache{})

		mockRepo.On("DeleteByID", "missing").Return(int64(0), nil)

		err := service.DeleteFaq("missing")
		assert.ErrorIs(t, err, ErrFaqNotFound)
	})
}
