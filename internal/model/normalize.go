package model

import "fmt"

// RemoteItem is the persisted record shape returned by the backend.
type RemoteItem struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userid,omitempty"`
	Type        string   `json:"type"`
	Status      string   `json:"status,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	ExpiryDate  string   `json:"expiryDate,omitempty"`
	BlobPath    string   `json:"blobPath,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ScannedData *string  `json:"scannedData"`
	DataType    *string  `json:"dataType"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// DefaultTitle is used when neither the backend nor the user supplied one.
const DefaultTitle = "Untitled"

// Normalize converts a remote record into the in-memory card shape.
//
// All remote records flow through here; no other code builds an ItemCard
// from external data. Missing or malformed fields fall back to defaults
// instead of failing, since display must never break on partial data:
// amounts clamp to non-negative, unknown types become TypeOther, and the
// expiry date passes through as received.
func Normalize(raw RemoteItem) ItemCard {
	card := ItemCard{
		Title:      raw.Title,
		ImageURI:   raw.ImageURL,
		Type:       ItemType(raw.Type),
		ExpiryDate: raw.ExpiryDate,
		Currency:   raw.Currency,
	}

	if card.Title == "" {
		card.Title = DefaultTitle
	}
	if err := card.Type.Validate(); err != nil {
		card.Type = TypeOther
	}
	if raw.Amount != nil && *raw.Amount > 0 {
		card.Amount = *raw.Amount
	}
	if raw.Description != "" {
		card.Description = raw.Description
	} else {
		card.Description = fmt.Sprintf("Type: %s", card.Type)
	}

	// Scanned payload and symbology only make sense as a pair.
	if raw.ScannedData != nil && raw.DataType != nil && *raw.ScannedData != "" && *raw.DataType != "" {
		card.ScannedData = *raw.ScannedData
		card.DataType = *raw.DataType
	}

	return card
}
