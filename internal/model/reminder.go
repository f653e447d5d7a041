package model

import "time"

// Reminder is a scheduled expiry notification waiting to be delivered.
type Reminder struct {
	FireAt    time.Time
	CreatedAt time.Time
	Title     string
	Body      string
	ID        int64
	Delivered bool
}
