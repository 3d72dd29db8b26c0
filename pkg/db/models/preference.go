package models

import "time"

// Preference holds one client-scoped setting, currently only the language
// choice. Key is "<cartID>:<name>".
type Preference struct {
	Key       string `gorm:"primaryKey;type:text"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Preference) TableName() string { return "preferences" }
