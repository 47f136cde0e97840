package service

import (
	"errors"

	orderModel "gocart/internal/domain/order/model"
	orderService "gocart/internal/domain/order/service"
	"gocart/internal/domain/rating/model"
	"gocart/internal/domain/rating/repository"
)

var (
	ErrInvalidScore      = errors.New("rating must be between 1 and 5")
	ErrReviewTooLong     = errors.New("review too long")
	ErrOrderNotDelivered = errors.New("order is not delivered")
	ErrProductNotInOrder = errors.New("product not part of this order")
)

const maxReviewLen = 2000

type RatingService interface {
	RateProduct(userID, orderID, productID string, score int, review string) (*model.Rating, error)
	GetProductRatings(productID string, page, limit int) ([]model.Rating, int64, error)
	GetProductScore(productID string) (float64, int64, error)
	GetUserRatings(userID string) ([]model.Rating, error)
}

type ratingService struct {
	repo   repository.RatingRepository
	orders orderService.OrderService
}

func NewRatingService(repo repository.RatingRepository, orders orderService.OrderService) RatingService {
	return &ratingService{repo: repo, orders: orders}
}

// RateProduct 只有已送达订单里的商品才能评分，重复评分覆盖旧的
func (s *ratingService) RateProduct(userID, orderID, productID string, score int, review string) (*model.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}
	if len(review) > maxReviewLen {
		return nil, ErrReviewTooLong
	}

	order, err := s.orders.GetOwnedOrder(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != orderModel.StatusDelivered {
		return nil, ErrOrderNotDelivered
	}

	found := false
	for _, item := range order.OrderItems {
		if item.ProductID == productID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrProductNotInOrder
	}

	rating := &model.Rating{
		UserID:    userID,
		ProductID: productID,
		OrderID:   orderID,
		Score:     score,
		Review:    review,
	}
	if err := s.repo.Upsert(rating); err != nil {
		return nil, err
	}

	return s.repo.GetByUserAndProduct(userID, productID)
}

func (s *ratingService) GetProductRatings(productID string, page, limit int) ([]model.Rating, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetByProduct(productID, (page-1)*limit, limit)
}

func (s *ratingService) GetProductScore(productID string) (float64, int64, error) {
	return s.repo.AverageByProduct(productID)
}

func (s *ratingService) GetUserRatings(userID string) ([]model.Rating, error) {
	return s.repo.GetByUser(userID)
}
