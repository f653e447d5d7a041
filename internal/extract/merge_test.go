package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Duckhouse1/expira/internal/model"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestMergeAllNullYieldsDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	card := Merge(Metadata{}, model.TypeGiftCard, "/tmp/photo.jpg", "", "", now)

	assert.Equal(t, model.DefaultTitle, card.Title)
	assert.Equal(t, model.TypeGiftCard, card.Type)
	assert.Equal(t, "/tmp/photo.jpg", card.ImageURI)
	assert.Equal(t, "2026-03-01T12:00:00Z", card.ExpiryDate)
	assert.Equal(t, 0.0, card.Amount)
	assert.Equal(t, "Type: GiftCard", card.Description)
	assert.NoError(t, card.Validate())
}

func TestMergeExtractedValuesWin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	meta := Metadata{
		Title:     strPtr("Ikea gift card"),
		Store:     strPtr("Ikea"),
		From:      strPtr("Grandma"),
		ExpiresOn: strPtr("2027-01-01"),
		Amount: Amount{
			Value:    floatPtr(400),
			Currency: strPtr("DKK"),
		},
	}

	card := Merge(meta, model.TypeGiftCard, "/tmp/p.png", "code-1", "qr", now)

	assert.Equal(t, "Ikea gift card", card.Title)
	assert.Equal(t, "2027-01-01", card.ExpiryDate)
	assert.Equal(t, 400.0, card.Amount)
	assert.Equal(t, "DKK", card.Currency)
	assert.Equal(t, "From: Grandma, Store: Ikea", card.Description)
	assert.Equal(t, "code-1", card.ScannedData)
	assert.Equal(t, "qr", card.DataType)
}

func TestMergePartialMetadata(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		meta     Metadata
		wantDesc string
	}{
		{
			name:     "store only",
			meta:     Metadata{Store: strPtr("Netto")},
			wantDesc: "Store: Netto",
		},
		{
			name:     "from only",
			meta:     Metadata{From: strPtr("Mom")},
			wantDesc: "From: Mom",
		},
		{
			name:     "empty strings fall back to type",
			meta:     Metadata{From: strPtr(""), Store: strPtr("")},
			wantDesc: "Type: receipt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Merge(tt.meta, model.TypeReceipt, "/p.jpg", "", "", now)
			assert.Equal(t, tt.wantDesc, card.Description)
		})
	}
}

func TestMergeIgnoresNonPositiveAmount(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	card := Merge(Metadata{Amount: Amount{Value: floatPtr(-5)}}, model.TypeOther, "/p.jpg", "", "", now)
	assert.Equal(t, 0.0, card.Amount)

	card = Merge(Metadata{Amount: Amount{Value: floatPtr(0)}}, model.TypeOther, "/p.jpg", "", "", now)
	assert.Equal(t, 0.0, card.Amount)
}

func TestMergeEmptyTitleAndExpiryFallBack(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	meta := Metadata{
		Title:     strPtr(""),
		ExpiresOn: strPtr(""),
	}

	card := Merge(meta, model.TypeEmail, "/p.jpg", "", "", now)

	assert.Equal(t, model.DefaultTitle, card.Title)
	assert.Equal(t, now.Format(time.RFC3339), card.ExpiryDate)
}
