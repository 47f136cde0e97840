package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gocart/internal/domain/settings/model"
	"gocart/internal/domain/settings/repository"
	"gocart/internal/pkg/config"
	"gocart/pkg/cache"
	"gocart/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrFaqNotFound = errors.New("faq not found")
	ErrEmptyFaq    = errors.New("question and answer are required")
)

const faqCacheKey = "faq:all"

type FaqService interface {
	ListFaqs() ([]model.Faq, error)
	CreateFaq(question, answer string) (*model.Faq, error)
	DeleteFaq(id string) error
}

type faqService struct {
	repo  repository.FaqRepository
	cache cache.CacheService
}

func NewFaqService(repo repository.FaqRepository, c cache.CacheService) FaqService {
	return &faqService{repo: repo, cache: c}
}

// ListFaqs 公开列表，整表缓存
// FAQ 只有管理员改动，写路径失效缓存即可保持一致
func (s *faqService) ListFaqs() ([]model.Faq, error) {
	ctx := context.Background()

	var cached []model.Faq
	if err := s.cache.Get(ctx, faqCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Log.Warn("faq cache read failed", zap.Error(err))
	}

	faqs, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(config.GlobalConfig.Settings.CacheTTLSeconds) * time.Second
	if err := s.cache.Set(ctx, faqCacheKey, faqs, ttl); err != nil {
		logger.Log.Warn("faq cache write failed", zap.Error(err))
	}

	return faqs, nil
}

func (s *faqService) CreateFaq(question, answer string) (*model.Faq, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, ErrEmptyFaq
	}

	faq := &model.Faq{Question: question, Answer: answer}
	if err := s.repo.Create(faq); err != nil {
		return nil, err
	}

	s.invalidate()
	return faq, nil
}

func (s *faqService) DeleteFaq(id string) error {
	rows, err := s.repo.DeleteByID(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrFaqNotFound
	}

	s.invalidate()
	return nil
}

func (s *faqService) invalidate() {
	if err := s.cache.Delete(context.Background(), faqCacheKey); err != nil {
		logger.Log.Warn("faq cache invalidation failed", zap.Error(err))
	}
}
