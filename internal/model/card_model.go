package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card is a single trading card listing (one game, set and condition).
type Card struct {
	CardID    int64           `json:"id"`
	Name      string          `json:"name"`
	Game      string          `json:"game"`
	SetName   string          `json:"set_name"`
	Rarity    string          `json:"rarity"`
	Condition string          `json:"condition"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	ImageURL  *string         `json:"image_url,omitempty"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}
