// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// ItemType identifies what kind of physical or digital token a vault item
// represents. The set is closed; values travel verbatim to and from the
// backend, including the historical "GiftCard" casing.
type ItemType string

// Item type constants.
const (
	TypeReceipt      ItemType = "receipt"
	TypeGiftCard     ItemType = "GiftCard"
	TypeEmail        ItemType = "email"
	TypeSubscription ItemType = "subscription"
	TypeOther        ItemType = "other"
)

// AllTypes lists every valid item type in display order.
func AllTypes() []ItemType {
	return []ItemType{TypeReceipt, TypeGiftCard, TypeEmail, TypeSubscription, TypeOther}
}

// Validate reports whether the type belongs to the closed set.
func (t ItemType) Validate() error {
	switch t {
	case TypeReceipt, TypeGiftCard, TypeEmail, TypeSubscription, TypeOther:
		return nil
	}
	return fmt.Errorf("invalid item type: %s", t)
}

// String returns the wire representation of the type.
func (t ItemType) String() string {
	return string(t)
}

// DisplayName returns a human-readable label for the type.
func (t ItemType) DisplayName() string {
	switch t {
	case TypeReceipt:
		return "Receipt"
	case TypeGiftCard:
		return "Gift card"
	case TypeEmail:
		return "Email"
	case TypeSubscription:
		return "Subscription"
	case TypeOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// Scannable reports whether the type implies a scannable QR/barcode, which
// makes the optional scan step available during capture.
func (t ItemType) Scannable() bool {
	return t == TypeGiftCard || t == TypeReceipt
}

// ItemCard holds the canonical fields of a vault entry.
//
// ExpiryDate is carried as the string the backend returned; sorting and
// reminders parse it with ParseExpiry and treat unparsable values as the
// epoch so display never fails on partial data.
type ItemCard struct {
	Title       string
	Description string
	ImageURI    string
	Type        ItemType
	ExpiryDate  string
	Amount      float64
	Currency    string
	ScannedData string
	DataType    string
}

// Validate checks the card invariants: type in the closed set, non-negative
// amount, and scanned payload/symbology present or absent together.
func (c *ItemCard) Validate() error {
	if err := c.Type.Validate(); err != nil {
		return err
	}
	if c.Amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %f", c.Amount)
	}
	if (c.ScannedData == "") != (c.DataType == "") {
		return fmt.Errorf("scanned data and data type must be set together")
	}
	return nil
}

// ExpiresAt parses the card's expiry date. Unparsable or missing dates map
// to the zero time so they sort as oldest.
func (c *ItemCard) ExpiresAt() time.Time {
	return ParseExpiry(c.ExpiryDate)
}

// VaultItem is the display-ready wrapper around zero or one card. Items are
// never mutated in place after creation; edits would produce a new record.
type VaultItem struct {
	Card *ItemCard
}

// expiryFormats lists the date layouts the backend is known to emit.
var expiryFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseExpiry parses an expiry date string. Empty or unparsable input
// yields the zero time, the minimum sort key.
func ParseExpiry(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range expiryFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
