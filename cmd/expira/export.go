package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Duckhouse1/expira/internal/cli"
	"github.com/Duckhouse1/expira/internal/config"
	"github.com/Duckhouse1/expira/internal/sheets"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the vault to Google Sheets",
		Long: `Fetch the vault collection and write it to a Google Sheets
spreadsheet, one row per item sorted by expiry.`,
		RunE: runExport,
	}
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	vaultSvc, _, err := initVault(store)
	if err != nil {
		return err
	}

	if err := vaultSvc.Refresh(ctx); err != nil {
		return err
	}

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	items := vaultSvc.Store().Items()
	if err := writer.Write(ctx, items); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d items", len(items))))
	return nil
}
