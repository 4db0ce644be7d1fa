package models

import "gorm.io/gorm"

// TraderCount stores the number of hired traders, which drives the fee.
// There should only ever be one row in this table.
type TraderCount struct {
	gorm.Model
	Count int `gorm:"not null;default:0" json:"count"`
}
