package repository

import (
	"gocart/internal/domain/coupon/model"

	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(coupon *model.Coupon) error
	GetByCode(code string) (*model.Coupon, error)
	GetList(offset, limit int) ([]model.Coupon, int64, error)
	DeleteByCode(code string) (int64, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *couponRepository) GetByCode(code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetList(offset, limit int) ([]model.Coupon, int64, error) {
	var coupons []model.Coupon
	var total int64

	if err := r.db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&coupons).Error
	return coupons, total, err
}

func (r *couponRepository) DeleteByCode(code string) (int64, error) {
	result := r.db.Where("code = ?", code).Delete(&model.Coupon{})
	return result.RowsAffected, result.Error
}
