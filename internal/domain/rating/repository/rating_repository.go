package repository

import (
	"gocart/internal/domain/rating/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	Upsert(rating *model.Rating) error
	GetByUserAndProduct(userID, productID string) (*model.Rating, error)
	GetByProduct(productID string, offset, limit int) ([]model.Rating, int64, error)
	GetByUser(userID string) ([]model.Rating, error)
	AverageByProduct(productID string) (float64, int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert 同一用户重复评分同一商品时覆盖旧评分
func (r *ratingRepository) Upsert(rating *model.Rating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "review", "order_id", "updated_at"}),
	}).Create(rating).Error
}

func (r *ratingRepository) GetByUserAndProduct(userID, productID string) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) GetByProduct(productID string, offset, limit int) ([]model.Rating, int64, error) {
	var ratings []model.Rating
	var total int64

	query := r.db.Model(&model.Rating{}).Where("product_id = ?", productID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&ratings).Error
	return ratings, total, err
}

func (r *ratingRepository) GetByUser(userID string) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&ratings).Error
	return ratings, err
}

func (r *ratingRepository) AverageByProduct(productID string) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&model.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}
