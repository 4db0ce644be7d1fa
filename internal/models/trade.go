package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade is a history record written when (part of) a position is closed.
// Quantity is the number of shares sold by this close, which may be less
// than the position's total. The fee captured here is the fee in effect
// at close time.
type Trade struct {
	gorm.Model
	PositionID uint      `gorm:"index;not null" json:"position_id"`
	Ingredient string    `gorm:"not null" json:"ingredient"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	GrossPL    float64   `json:"gross_pl"`
	FeePercent float64   `json:"fee_percent"`
	FeeAmount  float64   `json:"fee_amount"`
	NetPL      float64   `json:"net_pl"`
	ClosedAt   time.Time `gorm:"index" json:"closed_at"`
	Comment    string    `json:"comment,omitempty"`
}

// Display returns the trade's ingredient as "CODE Name emoji".
func (t *Trade) Display() string {
	return IngredientDisplay(t.Ingredient)
}
