package repository

import (
	"gocart/internal/domain/settings/model"

	"gorm.io/gorm"
)

type FaqRepository interface {
	Create(faq *model.Faq) error
	GetAll() ([]model.Faq, error)
	DeleteByID(id string) (int64, error)
}

type faqRepository struct {
	db *gorm.DB
}

func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(faq *model.Faq) error {
	return r.db.Create(faq).Error
}

func (r *faqRepository) GetAll() ([]model.Faq, error) {
	var faqs []model.Faq
	err := r.db.Order("created_at DESC").Find(&faqs).Error
	return faqs, err
}

func (r *faqRepository) DeleteByID(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&model.Faq{})
	return result.RowsAffected, result.Error
}
