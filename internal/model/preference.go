package model

import "time"

// Preference is one key of the shared settings store.
type Preference struct {
	Key       string `gorm:"column:pref_key;primaryKey;size:190"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName binds Preference to the preferences table.
func (Preference) TableName() string {
	return "preferences"
}
