// Package sheets exports the vault collection to a Google Sheets
// spreadsheet.
package sheets

import (
	"fmt"
	"time"
)

// Config holds the configuration for the spreadsheet writer.
type Config struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	TokenFile       string
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string
	BatchSize       int
	RetryAttempts   int
	RetryDelay      time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: "Expira Vault",
		TimeZone:        "Europe/Copenhagen",
		BatchSize:       1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("missing Google Sheets OAuth2 credentials")
	}
	if c.RefreshToken == "" && c.TokenFile == "" {
		return fmt.Errorf("no refresh token or token file configured")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}
	return nil
}
