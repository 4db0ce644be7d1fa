package models

import "gorm.io/gorm"

// Position status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Position represents a buy on an ingredient that has not been fully
// sold yet. Partial closes reduce Quantity; a full close flips Status.
type Position struct {
	gorm.Model
	Ingredient string  `gorm:"index;not null" json:"ingredient"`
	Quantity   int64   `gorm:"not null" json:"quantity"`
	EntryPrice float64 `gorm:"not null" json:"entry_price"`
	Status     string  `gorm:"index;not null;default:open" json:"status"`
	Comment    string  `json:"comment,omitempty"`
}

// Display returns the position's ingredient as "CODE Name emoji".
func (p *Position) Display() string {
	return IngredientDisplay(p.Ingredient)
}
