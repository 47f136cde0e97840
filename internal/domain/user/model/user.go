package model

import (
	"encoding/json"
	"time"

	baseModel "gocart/pkg/model"
)

// User 买家用户模型
// ID 允许使用外部身份系统的 subject，未提供时由 BaseModel 钩子生成 UUID
type User struct {
	baseModel.BaseModel
	Name         string          `gorm:"type:varchar(100)" json:"name"`
	Email        string          `gorm:"unique;not null" json:"email"`
	Image        string          `json:"image"`
	Plan         string          `gorm:"type:varchar(20);default:'free'" json:"plan"` // free, plus
	PlanExpireAt *time.Time      `json:"planExpireAt,omitempty"`
	Cart         json.RawMessage `gorm:"type:jsonb;default:'{}'" json:"cart"`
}

const (
	PlanFree = "free"
	PlanPlus = "plus"
)

// IsMember 当前是否为有效会员 (plus 且未过期)
func (u *User) IsMember() bool {
	if u.Plan != PlanPlus {
		return false
	}
	if u.PlanExpireAt == nil {
		return true
	}
	return time.Now().Before(*u.PlanExpireAt)
}

// Address 收货地址，下单时快照引用
type Address struct {
	baseModel.BaseModel
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Street  string `json:"street"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Zip     string `gorm:"type:varchar(20)" json:"zip"`
	Country string `gorm:"type:varchar(100)" json:"country"`
}
