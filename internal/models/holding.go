package models

import "gorm.io/gorm"

// Holding is the denormalized portfolio rollup for one ingredient,
// recomputed from open positions after every mutation. AveragePrice is
// the entry price weighted by quantity.
type Holding struct {
	gorm.Model
	Ingredient   string  `gorm:"uniqueIndex;not null" json:"ingredient"`
	Quantity     int64   `gorm:"not null" json:"quantity"`
	AveragePrice float64 `gorm:"not null" json:"average_price"`
	Positions    int     `gorm:"not null" json:"positions"`
}

// Display returns the holding's ingredient as "CODE Name emoji".
func (h *Holding) Display() string {
	return IngredientDisplay(h.Ingredient)
}
