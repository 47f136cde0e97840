package model

import (
	"time"

	"gocart/pkg/model"
)

// Coupon 优惠券
// Code 全局唯一，入库前统一转大写
type Coupon struct {
	model.BaseModel
	Code            string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description     string    `gorm:"type:varchar(255)" json:"description"`
	DiscountPercent int       `gorm:"not null" json:"discount"`
	ForNewUser      bool      `gorm:"default:false" json:"forNewUser"`
	ForMember       bool      `gorm:"default:false" json:"forMember"`
	IsPublic        bool      `gorm:"default:false" json:"isPublic"`
	ExpiresAt       time.Time `gorm:"not null" json:"expiresAt"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// IsExpired 过期券对外表现与不存在一致
func (c *Coupon) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
