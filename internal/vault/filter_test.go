package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Duckhouse1/expira/internal/model"
)

func card(title string, itemType model.ItemType, expiry string, amount float64) model.VaultItem {
	return model.VaultItem{Card: &model.ItemCard{
		Title:      title,
		Type:       itemType,
		ExpiryDate: expiry,
		Amount:     amount,
	}}
}

func titles(items []model.VaultItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Card != nil {
			out = append(out, item.Card.Title)
		}
	}
	return out
}

func TestDefaultFilterInactive(t *testing.T) {
	assert.False(t, DefaultFilter().Active())
	assert.True(t, FilterSpec{SortBy: SortByDate, SortDir: SortAsc}.Active())
	assert.True(t, FilterSpec{SortBy: SortByPrice, SortDir: SortDesc}.Active())
	assert.True(t, FilterSpec{SortBy: SortByDate, SortDir: SortDesc, Types: []model.ItemType{model.TypeEmail}}.Active())
}

func TestFilterSpecApply(t *testing.T) {
	items := []model.VaultItem{
		card("old gift", model.TypeGiftCard, "2025-01-01", 100),
		card("receipt", model.TypeReceipt, "2026-06-01", 20),
		card("new gift", model.TypeGiftCard, "2027-01-01", 50),
		card("email", model.TypeEmail, "", 0),
	}

	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{
			name: "default sorts newest expiry first",
			spec: DefaultFilter(),
			want: []string{"new gift", "receipt", "old gift", "email"},
		},
		{
			name: "date ascending puts missing expiry first",
			spec: FilterSpec{SortBy: SortByDate, SortDir: SortAsc},
			want: []string{"email", "old gift", "receipt", "new gift"},
		},
		{
			name: "price descending",
			spec: FilterSpec{SortBy: SortByPrice, SortDir: SortDesc},
			want: []string{"old gift", "new gift", "receipt", "email"},
		},
		{
			name: "type filter keeps only gift cards",
			spec: FilterSpec{SortBy: SortByDate, SortDir: SortDesc, Types: []model.ItemType{model.TypeGiftCard}},
			want: []string{"new gift", "old gift"},
		},
		{
			name: "multiple types",
			spec: FilterSpec{SortBy: SortByDate, SortDir: SortAsc, Types: []model.ItemType{model.TypeGiftCard, model.TypeEmail}},
			want: []string{"email", "old gift", "new gift"},
		},
		{
			name: "type nobody has keeps nothing",
			spec: FilterSpec{SortBy: SortByDate, SortDir: SortDesc, Types: []model.ItemType{model.TypeSubscription}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.Apply(items)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFilterSpecApplyPreEpochExpiry(t *testing.T) {
	// A valid pre-1970 expiry is still a real date; only missing or
	// unparsable ones take the minimum slot.
	items := []model.VaultItem{
		card("modern", model.TypeGiftCard, "2026-01-01", 0),
		card("vintage", model.TypeGiftCard, "1969-06-01", 0),
		card("undated", model.TypeGiftCard, "", 0),
	}

	got := FilterSpec{SortBy: SortByDate, SortDir: SortAsc}.Apply(items)
	assert.Equal(t, []string{"undated", "vintage", "modern"}, titles(got))

	got = FilterSpec{SortBy: SortByDate, SortDir: SortDesc}.Apply(items)
	assert.Equal(t, []string{"modern", "vintage", "undated"}, titles(got))
}

func TestFilterSpecApplyIdempotent(t *testing.T) {
	items := []model.VaultItem{
		card("a", model.TypeGiftCard, "2026-01-01", 10),
		card("b", model.TypeReceipt, "2025-01-01", 30),
		card("c", model.TypeGiftCard, "2027-01-01", 20),
	}

	spec := FilterSpec{SortBy: SortByPrice, SortDir: SortAsc}
	once := spec.Apply(items)
	twice := spec.Apply(once)

	assert.Equal(t, titles(once), titles(twice))
}

func TestFilterSpecApplyStableOnTies(t *testing.T) {
	// Equal amounts keep their prior relative order regardless of direction.
	items := []model.VaultItem{
		card("first", model.TypeGiftCard, "2026-01-01", 25),
		card("second", model.TypeGiftCard, "2025-01-01", 25),
		card("third", model.TypeGiftCard, "2027-01-01", 25),
	}

	for _, dir := range []SortDir{SortAsc, SortDesc} {
		got := FilterSpec{SortBy: SortByPrice, SortDir: dir}.Apply(items)
		assert.Equal(t, []string{"first", "second", "third"}, titles(got), "dir %s", dir)
	}
}

func TestFilterSpecApplyDoesNotMutateInput(t *testing.T) {
	items := []model.VaultItem{
		card("b", model.TypeGiftCard, "2025-01-01", 2),
		card("a", model.TypeGiftCard, "2026-01-01", 1),
	}

	_ = FilterSpec{SortBy: SortByPrice, SortDir: SortAsc}.Apply(items)

	require.Equal(t, []string{"b", "a"}, titles(items))
}

func TestFilterSpecApplyNilCards(t *testing.T) {
	items := []model.VaultItem{
		{Card: nil},
		card("a", model.TypeGiftCard, "2026-01-01", 1),
	}

	// Kept when no type filter is active.
	got := DefaultFilter().Apply(items)
	assert.Len(t, got, 2)

	// Dropped when one is.
	got = FilterSpec{SortBy: SortByDate, SortDir: SortDesc, Types: []model.ItemType{model.TypeGiftCard}}.Apply(items)
	assert.Equal(t, []string{"a"}, titles(got))
}

func TestFilterSpecApplyEmpty(t *testing.T) {
	got := DefaultFilter().Apply(nil)
	assert.Empty(t, got)
}
