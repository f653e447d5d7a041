package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/Duckhouse1/expira/internal/model"
)

// Merge assembles a draft card from the extraction result using
// first-present-value-wins semantics: every nil leaf falls back to its
// default, so a fully null response still yields a usable draft.
//
// Defaults: title "Untitled", amount 0, expiry now (in RFC 3339), and a
// description derived from the extracted source/store or, failing that,
// the item type.
func Merge(meta Metadata, itemType model.ItemType, imageURI, scannedData, dataType string, now time.Time) model.ItemCard {
	card := model.ItemCard{
		Title:       model.DefaultTitle,
		Type:        itemType,
		ImageURI:    imageURI,
		ExpiryDate:  now.UTC().Format(time.RFC3339),
		ScannedData: scannedData,
		DataType:    dataType,
	}

	if meta.Title != nil && *meta.Title != "" {
		card.Title = *meta.Title
	}
	if meta.ExpiresOn != nil && *meta.ExpiresOn != "" {
		card.ExpiryDate = *meta.ExpiresOn
	}
	if meta.Amount.Value != nil && *meta.Amount.Value > 0 {
		card.Amount = *meta.Amount.Value
	}
	if meta.Amount.Currency != nil {
		card.Currency = *meta.Amount.Currency
	}

	card.Description = describeSource(meta, itemType)

	return card
}

// describeSource builds the draft description from whatever the extraction
// produced, falling back to the fixed type template.
func describeSource(meta Metadata, itemType model.ItemType) string {
	var parts []string
	if meta.From != nil && *meta.From != "" {
		parts = append(parts, fmt.Sprintf("From: %s", *meta.From))
	}
	if meta.Store != nil && *meta.Store != "" {
		parts = append(parts, fmt.Sprintf("Store: %s", *meta.Store))
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Type: %s", itemType)
}
