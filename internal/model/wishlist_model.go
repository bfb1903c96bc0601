package model

import "time"

type WishlistItem struct {
	ItemType  ItemType  `json:"item_type"`
	ItemID    int64     `json:"item_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
