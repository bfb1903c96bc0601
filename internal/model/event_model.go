package model

import "time"

// Event is an in-store event such as a tournament or a release night.
type Event struct {
	EventID     int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"starts_at"`
	Capacity    *int       `json:"capacity,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
