package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Duckhouse1/expira/internal/backend"
	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/extract"
	"github.com/Duckhouse1/expira/internal/sheets"
)

// LoadBackendConfig builds the backend client configuration from Viper,
// falling back to EXPIRA_ environment variables via AutomaticEnv.
func LoadBackendConfig() (backend.Config, error) {
	cfg := backend.Config{
		BaseURL:      viper.GetString("backend.base_url"),
		FunctionKey:  viper.GetString("backend.function_key"),
		UserID:       viper.GetString("user.id"),
		ShowProgress: true,
	}

	if timeout := viper.GetDuration("backend.timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	if cfg.BaseURL == "" {
		return backend.Config{}, fmt.Errorf("%w: backend.base_url", common.ErrMissingConfig)
	}

	return cfg, nil
}

// LoadExtractionConfig builds the metadata extraction service
// configuration.
func LoadExtractionConfig() (extract.Config, error) {
	cfg := extract.Config{
		URL:         viper.GetString("extraction.url"),
		FunctionKey: viper.GetString("extraction.function_key"),
	}

	if timeout := viper.GetDuration("extraction.timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	if cfg.URL == "" {
		return extract.Config{}, fmt.Errorf("%w: extraction.url", common.ErrMissingConfig)
	}

	return cfg, nil
}

// DatabasePath resolves the local snapshot database location.
func DatabasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/expira/expira.db"
	}
	return ExpandPath(dbPath)
}

// LoadSheetsConfig loads the Google Sheets export configuration.
// Viper values win; bare GOOGLE_SHEETS_* environment variables are the
// fallback for credentials.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.ClientID = v
	} else {
		cfg.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.ClientSecret = v
	} else {
		cfg.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.RefreshToken = v
	} else {
		cfg.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}

	if v := viper.GetString("sheets.token_file"); v != "" {
		cfg.TokenFile = ExpandPath(v)
	} else if cfg.RefreshToken == "" {
		cfg.TokenFile = ExpandPath("$HOME/.config/expira/sheets-token.json")
	}

	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}
	if v := viper.GetString("sheets.timezone"); v != "" {
		cfg.TimeZone = v
	}
	if v := viper.GetInt("sheets.batch_size"); v > 0 {
		cfg.BatchSize = v
	}
	if v := viper.GetInt("sheets.retry_attempts"); v > 0 {
		cfg.RetryAttempts = v
	}
	if v := viper.GetDuration("sheets.retry_delay"); v > 0 {
		cfg.RetryDelay = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sheets config: %w", err)
	}

	return &cfg, nil
}
