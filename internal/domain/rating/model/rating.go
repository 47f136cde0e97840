package model

import (
	"gocart/pkg/model"
)

// Rating 商品评分，每个用户对每个商品至多一条
type Rating struct {
	model.BaseModel
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"userId"`
	ProductID string `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"productId"`
	OrderID   string `gorm:"type:uuid;not null" json:"orderId"`
	Score     int    `gorm:"not null" json:"rating"`
	Review    string `gorm:"type:text" json:"review"`
}

func (Rating) TableName() string {
	return "ratings"
}
