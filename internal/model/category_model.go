package model

import "time"

type Category struct {
	CategoryID int64      `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
