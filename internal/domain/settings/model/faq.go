package model

import "gocart/pkg/model"

// Faq 常见问题条目，公开列表按创建时间倒序
type Faq struct {
	model.BaseModel
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
}

func (Faq) TableName() string {
	return "faqs"
}
