package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemTypeValidate(t *testing.T) {
	tests := []struct {
		name     string
		itemType ItemType
		wantErr  bool
	}{
		{name: "receipt", itemType: TypeReceipt},
		{name: "gift card keeps historical casing", itemType: TypeGiftCard},
		{name: "email", itemType: TypeEmail},
		{name: "subscription", itemType: TypeSubscription},
		{name: "other", itemType: TypeOther},
		{name: "lowercase giftcard is invalid", itemType: ItemType("giftcard"), wantErr: true},
		{name: "empty", itemType: ItemType(""), wantErr: true},
		{name: "unknown", itemType: ItemType("voucher"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.itemType.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItemTypeScannable(t *testing.T) {
	assert.True(t, TypeGiftCard.Scannable())
	assert.True(t, TypeReceipt.Scannable())
	assert.False(t, TypeEmail.Scannable())
	assert.False(t, TypeSubscription.Scannable())
	assert.False(t, TypeOther.Scannable())
}

func TestItemCardValidate(t *testing.T) {
	tests := []struct {
		name    string
		card    ItemCard
		wantErr bool
	}{
		{
			name: "valid card",
			card: ItemCard{Title: "Coffee card", Type: TypeGiftCard, Amount: 50},
		},
		{
			name:    "negative amount",
			card:    ItemCard{Title: "Bad", Type: TypeGiftCard, Amount: -1},
			wantErr: true,
		},
		{
			name:    "scanned data without symbology",
			card:    ItemCard{Type: TypeGiftCard, ScannedData: "1234"},
			wantErr: true,
		},
		{
			name:    "symbology without scanned data",
			card:    ItemCard{Type: TypeGiftCard, DataType: "qr"},
			wantErr: true,
		},
		{
			name: "scan pair together",
			card: ItemCard{Type: TypeGiftCard, ScannedData: "1234", DataType: "qr"},
		},
		{
			name:    "invalid type",
			card:    ItemCard{Type: ItemType("nope")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "RFC3339",
			input: "2026-09-15T10:30:00Z",
			want:  time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with fraction",
			input: "2026-09-15T10:30:00.5Z",
			want:  time.Date(2026, 9, 15, 10, 30, 0, 500000000, time.UTC),
		},
		{
			name:  "bare datetime without zone",
			input: "2026-09-15T10:30:00",
			want:  time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2026-09-15",
			want:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "empty yields zero time",
			input: "",
			want:  time.Time{},
		},
		{
			name:  "garbage yields zero time",
			input: "next tuesday",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExpiry(tt.input)
			require.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestExpiresAtUnparsableSortsOldest(t *testing.T) {
	broken := ItemCard{ExpiryDate: "not a date"}
	valid := ItemCard{ExpiryDate: "2026-01-01"}

	assert.True(t, broken.ExpiresAt().Before(valid.ExpiresAt()))
	assert.True(t, broken.ExpiresAt().IsZero())
}
