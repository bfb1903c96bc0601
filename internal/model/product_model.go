package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID   int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}
