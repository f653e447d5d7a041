package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duckhouse1/expira/internal/model"
)

func TestStoreAppendAndItems(t *testing.T) {
	store := NewStore()
	assert.Equal(t, 0, store.Len())

	store.Append(card("a", model.TypeGiftCard, "2026-01-01", 1))
	store.Append(card("b", model.TypeReceipt, "2026-02-01", 2))

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, []string{"a", "b"}, titles(store.Items()))
}

func TestStoreItemsReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Append(card("a", model.TypeGiftCard, "2026-01-01", 1))

	items := store.Items()
	items[0] = card("mutated", model.TypeOther, "", 0)

	assert.Equal(t, []string{"a"}, titles(store.Items()))
}

func TestStoreReplace(t *testing.T) {
	store := NewStore()
	store.Append(card("old", model.TypeGiftCard, "2026-01-01", 1))

	store.Replace([]model.VaultItem{
		card("x", model.TypeEmail, "", 0),
		card("y", model.TypeOther, "", 0),
	})

	assert.Equal(t, []string{"x", "y"}, titles(store.Items()))
}

func TestStoreRemove(t *testing.T) {
	store := NewStore()
	store.Append(card("keep", model.TypeGiftCard, "2026-01-01", 1))
	store.Append(card("drop", model.TypeReceipt, "2026-02-01", 2))

	removed := store.Remove(func(item model.VaultItem) bool {
		return item.Card != nil && item.Card.Title == "drop"
	})

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"keep"}, titles(store.Items()))

	removed = store.Remove(func(model.VaultItem) bool { return false })
	assert.Equal(t, 0, removed)
}

func TestStoreSubscribe(t *testing.T) {
	store := NewStore()
	ch := store.Subscribe()

	store.Append(card("a", model.TypeGiftCard, "2026-01-01", 1))

	select {
	case <-ch:
	default:
		t.Fatal("expected a change signal after append")
	}

	// Signals coalesce instead of blocking the mutator.
	store.Append(card("b", model.TypeGiftCard, "2026-01-01", 1))
	store.Append(card("c", model.TypeGiftCard, "2026-01-01", 1))

	select {
	case <-ch:
	default:
		t.Fatal("expected a coalesced change signal")
	}
	require.Equal(t, 3, store.Len())
}
