package storage

import (
	"context"
	"fmt"

	"github.com/Duckhouse1/expira/internal/model"
)

// ReplaceItems swaps the stored snapshot for the given set atomically.
func (s *SQLiteStorage) ReplaceItems(ctx context.Context, items []model.ItemCard) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if items == nil {
		return fmt.Errorf("%w: items", ErrNilParameter)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vault_items"); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vault_items (title, description, image_uri, type, expiry_date, amount, currency, scanned_data, data_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, item := range items {
		if _, err := stmt.ExecContext(ctx,
			item.Title,
			item.Description,
			item.ImageURI,
			string(item.Type),
			item.ExpiryDate,
			item.Amount,
			item.Currency,
			item.ScannedData,
			item.DataType,
		); err != nil {
			return fmt.Errorf("failed to insert item at index %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// GetItems returns the stored snapshot in insertion order.
func (s *SQLiteStorage) GetItems(ctx context.Context) ([]model.ItemCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT title, description, image_uri, type, expiry_date, amount, currency, scanned_data, data_type
		FROM vault_items
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ItemCard
	for rows.Next() {
		var item model.ItemCard
		var itemType string
		if err := rows.Scan(
			&item.Title,
			&item.Description,
			&item.ImageURI,
			&itemType,
			&item.ExpiryDate,
			&item.Amount,
			&item.Currency,
			&item.ScannedData,
			&item.DataType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Type = model.ItemType(itemType)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// DeleteItem removes a snapshot row by its title and expiry date. Deleting
// a row that is not present is not an error; the snapshot may be stale.
func (s *SQLiteStorage) DeleteItem(ctx context.Context, title, expiryDate string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(title, "title"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM vault_items WHERE title = ? AND expiry_date = ?",
		title, expiryDate)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}
