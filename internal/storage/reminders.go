package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/model"
)

// SaveReminder persists a reminder and fills in its assigned ID.
func (s *SQLiteStorage) SaveReminder(ctx context.Context, reminder *model.Reminder) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if reminder == nil {
		return fmt.Errorf("%w: reminder", ErrNilParameter)
	}
	if err := validateString(reminder.Title, "title"); err != nil {
		return err
	}
	if reminder.FireAt.IsZero() {
		return fmt.Errorf("%w: fire_at", ErrNilParameter)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (title, body, fire_at, delivered)
		VALUES (?, ?, ?, ?)`,
		reminder.Title,
		reminder.Body,
		reminder.FireAt.UTC(),
		reminder.Delivered,
	)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get reminder ID: %w", err)
	}
	reminder.ID = id

	return nil
}

// GetDueReminders returns undelivered reminders whose fire time has
// passed, oldest first.
func (s *SQLiteStorage) GetDueReminders(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, body, fire_at, delivered, created_at
		FROM reminders
		WHERE delivered = 0 AND fire_at <= ?
		ORDER BY fire_at`,
		now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reminders []model.Reminder
	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.ID, &r.Title, &r.Body, &r.FireAt, &r.Delivered, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

// MarkReminderDelivered flags a reminder so it is not surfaced again.
func (s *SQLiteStorage) MarkReminderDelivered(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE reminders SET delivered = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder delivered: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: reminder %d", common.ErrNotFound, id)
	}

	return nil
}
