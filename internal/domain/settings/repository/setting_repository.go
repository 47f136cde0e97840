package repository

import (
	"gocart/internal/domain/settings/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	GetByKey(key string) (*model.Setting, error)
	GetAll() ([]model.Setting, error)
	Upsert(setting *model.Setting) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetByKey(key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) GetAll() ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepository) Upsert(setting *model.Setting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}
