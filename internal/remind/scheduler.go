// Package remind schedules and surfaces expiry reminders. Reminders are
// queued in local storage and delivered when the user asks for them;
// there is no background daemon.
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/service"
)

// LeadTime is how far before an item's expiry its reminder fires.
const LeadTime = 7 * 24 * time.Hour

// pastDelay is the fallback fire delay for items that are already
// expired or expire within the lead time. The reminder still fires,
// just immediately-ish, instead of being silently dropped.
const pastDelay = 10 * time.Second

// ReminderBody is the fixed notification text.
const ReminderBody = "Giftcard is expiring soon!"

// Scheduler queues expiry reminders in storage.
type Scheduler struct {
	store service.Storage
	now   func() time.Time
}

// NewScheduler creates a storage-backed reminder scheduler.
func NewScheduler(store service.Storage) *Scheduler {
	return &Scheduler{
		store: store,
		now:   time.Now,
	}
}

// Schedule queues one reminder for an item expiring at expiry. The fire
// time is the lead time before expiry; if that point is already in the
// past the reminder fires after a short fallback delay instead.
func (s *Scheduler) Schedule(ctx context.Context, expiry time.Time, title string) error {
	now := s.now()

	fireAt := expiry.Add(-LeadTime)
	if !fireAt.After(now) {
		fireAt = now.Add(pastDelay)
	}

	reminder := &model.Reminder{
		Title:  title,
		Body:   ReminderBody,
		FireAt: fireAt,
	}
	if err := s.store.SaveReminder(ctx, reminder); err != nil {
		return fmt.Errorf("failed to queue reminder: %w", err)
	}

	slog.Debug("Queued expiry reminder",
		"reminder_id", reminder.ID,
		"title", title,
		"fire_at", fireAt)

	return nil
}

// Due returns reminders whose fire time has passed and marks them
// delivered, so each reminder is surfaced exactly once.
func (s *Scheduler) Due(ctx context.Context) ([]model.Reminder, error) {
	due, err := s.store.GetDueReminders(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load due reminders: %w", err)
	}

	for _, r := range due {
		if err := s.store.MarkReminderDelivered(ctx, r.ID); err != nil {
			return nil, fmt.Errorf("failed to mark reminder %d delivered: %w", r.ID, err)
		}
	}

	return due, nil
}
