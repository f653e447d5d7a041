package vault

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/service"
)

// Lister fetches the full remote collection for the current user.
type Lister interface {
	ListItems(ctx context.Context) ([]model.RemoteItem, error)
}

// Service keeps the session store in sync with the backend and the local
// snapshot cache.
type Service struct {
	lister Lister
	store  *Store
	cache  service.Storage
}

// NewService creates a vault service. The cache may be nil, in which case
// only the in-memory store is maintained.
func NewService(lister Lister, store *Store, cache service.Storage) *Service {
	return &Service{
		lister: lister,
		store:  store,
		cache:  cache,
	}
}

// Store exposes the session collection holder.
func (s *Service) Store() *Store {
	return s.store
}

// Refresh pulls the remote collection, normalizes every record and
// replaces the session store with the result sorted by ascending expiry.
// The raw response order is unspecified, so the client always re-sorts.
//
// The fetch is read-only and safe to repeat, so transient failures are
// retried. A cache write failure is logged, not surfaced; the snapshot is
// best effort.
func (s *Service) Refresh(ctx context.Context) error {
	var remote []model.RemoteItem
	err := common.WithRetry(ctx, func() error {
		var listErr error
		remote, listErr = s.lister.ListItems(ctx)
		if listErr != nil {
			return &common.RetryableError{Err: listErr, Retryable: true}
		}
		return nil
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	})
	if err != nil {
		return fmt.Errorf("failed to list vault items: %w", err)
	}

	items := make([]model.VaultItem, 0, len(remote))
	cards := make([]model.ItemCard, 0, len(remote))
	for _, raw := range remote {
		card := model.Normalize(raw)
		cards = append(cards, card)
		items = append(items, model.VaultItem{Card: &cards[len(cards)-1]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Card.ExpiresAt().Before(items[j].Card.ExpiresAt())
	})

	s.store.Replace(items)
	slog.Info("Vault refreshed", "items", len(items))

	if s.cache != nil {
		if cacheErr := s.cache.ReplaceItems(ctx, cards); cacheErr != nil {
			slog.Warn("Failed to update local snapshot", "error", cacheErr)
		}
	}

	return nil
}

// Delete removes an item from the session store and the local snapshot.
// Matching is by card identity (title + expiry), mirroring how the
// original client removed entries.
func (s *Service) Delete(ctx context.Context, item model.VaultItem) int {
	if item.Card == nil {
		return 0
	}

	removed := s.store.Remove(func(v model.VaultItem) bool {
		return v.Card == item.Card
	})

	if removed > 0 && s.cache != nil {
		if err := s.cache.DeleteItem(ctx, item.Card.Title, item.Card.ExpiryDate); err != nil {
			slog.Warn("Failed to delete item from snapshot", "error", err)
		}
	}

	return removed
}

// NextToExpire returns the item whose expiry is soonest at or after now,
// or nil when nothing in the collection is still valid.
func (s *Service) NextToExpire(now time.Time) *model.VaultItem {
	var next *model.VaultItem
	items := s.store.Items()
	for i := range items {
		card := items[i].Card
		if card == nil {
			continue
		}
		at := card.ExpiresAt()
		if at.Before(now) {
			continue
		}
		if next == nil || at.Before(next.Card.ExpiresAt()) {
			next = &items[i]
		}
	}
	return next
}
