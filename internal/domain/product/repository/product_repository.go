package repository

import (
	"gocart/internal/domain/product/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	GetByID(id string) (*model.Product, error)
	GetList(offset, limit int, category string) ([]model.Product, int64, error)
	GetByStore(storeID string, offset, limit int) ([]model.Product, int64, error)
	SetFlatStock(productID string, units int) error
	SetSizeStock(productID, size string, units int) error
	SetTotalUnits(productID string, totalUnits int) error

	StockLedger
}

// StockLedger 库存账本原子操作
// 所有方法接受事务句柄，由调用方 (库存提交、取消回补) 控制事务边界
type StockLedger interface {
	// DecrementFlatStock 条件扣减扁平库存，库存不足时返回 false 且不做任何修改
	DecrementFlatStock(tx *gorm.DB, productID string, qty int) (bool, error)

	// DecrementSizeStock 条件扣减尺码库存
	DecrementSizeStock(tx *gorm.DB, productID, size string, qty int) (bool, error)

	// IncrementFlatStock 回补扁平库存
	IncrementFlatStock(tx *gorm.DB, productID string, qty int) error

	// IncrementSizeStock 回补尺码库存
	IncrementSizeStock(tx *gorm.DB, productID, size string, qty int) error

	// RecomputeInStock 重算商品聚合 inStock 标志 (可用库存之和 > 0)
	RecomputeInStock(tx *gorm.DB, productID string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Preload("ProductSizes").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetList(offset, limit int, category string) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.Model(&model.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("ProductSizes").
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) GetByStore(storeID string, offset, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.Model(&model.Product{}).Where("store_id = ?", storeID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("ProductSizes").
		Offset(offset).Limit(limit).Order("created_at DESC").
		Find(&products).Error
	return products, total, err
}

// SetFlatStock 卖家直接设置扁平库存
func (r *productRepository) SetFlatStock(productID string, units int) error {
	return r.db.Model(&model.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"total_units": units,
		"in_stock":    units > 0,
	}).Error
}

// SetSizeStock 卖家直接设置某尺码库存
func (r *productRepository) SetSizeStock(productID, size string, units int) error {
	return r.db.Model(&model.ProductSize{}).
		Where("product_id = ? AND size = ?", productID, size).
		Updates(map[string]interface{}{
			"available_units": units,
			"total_units":     units,
		}).Error
}

func (r *productRepository) SetTotalUnits(productID string, totalUnits int) error {
	return r.db.Model(&model.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"total_units": totalUnits,
		"in_stock":    totalUnits > 0,
	}).Error
}

// DecrementFlatStock 乐观锁扣减库存：条件更新 + RowsAffected 判定
func (r *productRepository) DecrementFlatStock(tx *gorm.DB, productID string, qty int) (bool, error) {
	result := tx.Model(&model.Product{}).
		Where("id = ? AND total_units >= ?", productID, qty).
		UpdateColumn("total_units", gorm.Expr("total_units - ?", qty))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DecrementSizeStock 乐观锁扣减尺码库存
func (r *productRepository) DecrementSizeStock(tx *gorm.DB, productID, size string, qty int) (bool, error) {
	result := tx.Model(&model.ProductSize{}).
		Where("product_id = ? AND size = ? AND available_units >= ?", productID, size, qty).
		UpdateColumn("available_units", gorm.Expr("available_units - ?", qty))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepository) IncrementFlatStock(tx *gorm.DB, productID string, qty int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("total_units", gorm.Expr("total_units + ?", qty)).Error
}

func (r *productRepository) IncrementSizeStock(tx *gorm.DB, productID, size string, qty int) error {
	return tx.Model(&model.ProductSize{}).
		Where("product_id = ? AND size = ?", productID, size).
		UpdateColumn("available_units", gorm.Expr("available_units + ?", qty)).Error
}

// RecomputeInStock 重算聚合 inStock：
// 服饰商品取尺码可用库存之和，非服饰取扁平库存
func (r *productRepository) RecomputeInStock(tx *gorm.DB, productID string) error {
	var product model.Product
	if err := tx.Select("id", "is_clothing", "total_units").
		Where("id = ?", productID).First(&product).Error; err != nil {
		return err
	}

	inStock := product.TotalUnits > 0
	if product.IsClothing {
		var available int64
		if err := tx.Model(&model.ProductSize{}).
			Where("product_id = ?", productID).
			Select("COALESCE(SUM(available_units), 0)").
			Scan(&available).Error; err != nil {
			return err
		}
		inStock = available > 0
	}

	return tx.Model(&model.Product{}).Where("id = ?", productID).
		UpdateColumn("in_stock", inStock).Error
}
