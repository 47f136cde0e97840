package model

import (
	baseModel "gocart/pkg/model"
)

// Store 卖家店铺
type Store struct {
	baseModel.BaseModel
	UserID      string `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Username    string `gorm:"type:varchar(50);unique;not null" json:"username"`
	Description string `json:"description"`
	Email       string `gorm:"type:varchar(100)" json:"email"`
	Contact     string `gorm:"type:varchar(20)" json:"contact"`
	Logo        string `json:"logo"`
	Status      string `gorm:"type:varchar(20);default:'pending'" json:"status"` // pending, approved, rejected
	IsActive    bool   `gorm:"default:false" json:"isActive"`
}

const (
	StoreStatusPending  = "pending"
	StoreStatusApproved = "approved"
	StoreStatusRejected = "rejected"
)

// DashboardData 卖家看板聚合数据
type DashboardData struct {
	TotalOrders          int64   `json:"totalOrders"`
	CancelledOrdersCount int64   `json:"cancelledOrdersCount"`
	TotalEarnings        float64 `json:"totalEarnings"`
	CancelledEarnings    float64 `json:"cancelledEarnings"`
	TotalProducts        int64   `json:"totalProducts"`
}
