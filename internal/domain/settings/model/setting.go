package model

import (
	"encoding/json"

	"gocart/pkg/model"
)

// Setting 站点设置，按 key 存取，value 为任意 JSON
type Setting struct {
	model.BaseModel
	Key   string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}
