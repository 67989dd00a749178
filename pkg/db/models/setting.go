package models

import "time"

// HeaderTextKey holds the storefront header markup.
const HeaderTextKey = "header_text"

type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
