package model

import (
	baseModel "gocart/pkg/model"

	"github.com/lib/pq"
)

// Product 商品
// 库存两种形态：非服饰商品用扁平计数 TotalUnits；
// 服饰商品 (IsClothing) 按尺码在 ProductSize 维护 AvailableUnits/TotalUnits
type Product struct {
	baseModel.BaseModel
	StoreID     string         `gorm:"type:uuid;index;not null" json:"storeId"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`
	Description string         `json:"description"`
	MRP         float64        `gorm:"column:mrp" json:"mrp"`
	Price       float64        `gorm:"not null" json:"price"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Category    string         `gorm:"type:varchar(100);index" json:"category"`
	IsClothing  bool           `gorm:"default:false" json:"isClothing"`
	TotalUnits  int            `gorm:"default:0" json:"totalUnits"`
	InStock     bool           `gorm:"default:false;index" json:"inStock"`

	ProductSizes []ProductSize `gorm:"foreignKey:ProductID" json:"productSizes,omitempty"`
}

// ProductSize 尺码库存 (服饰商品)
type ProductSize struct {
	baseModel.BaseModel
	ProductID      string `gorm:"type:uuid;uniqueIndex:idx_product_size;not null" json:"productId"`
	Size           string `gorm:"type:varchar(10);uniqueIndex:idx_product_size;not null" json:"size"`
	AvailableUnits int    `gorm:"default:0" json:"availableUnits"`
	TotalUnits     int    `gorm:"default:0" json:"totalUnits"`
}
