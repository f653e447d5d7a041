// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Duckhouse1/expira/internal/model"
)

// Storage defines the contract for the local persistence layer.
//
// The database is a display snapshot of the remote collection plus the
// reminder queue; the authoritative record always lives in the backend.
type Storage interface {
	// Snapshot operations
	ReplaceItems(ctx context.Context, items []model.ItemCard) error
	GetItems(ctx context.Context) ([]model.ItemCard, error)
	DeleteItem(ctx context.Context, title, expiryDate string) error

	// Reminder operations
	SaveReminder(ctx context.Context, reminder *model.Reminder) error
	GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error)
	MarkReminderDelivered(ctx context.Context, id int64) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
