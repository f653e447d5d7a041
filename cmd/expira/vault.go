package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Duckhouse1/expira/internal/cli"
	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/tui"
	"github.com/Duckhouse1/expira/internal/vault"
)

func vaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Browse your vault",
		Long: `Fetch the vault collection and show it, sorted and filtered to taste.
Use --tui for the interactive browser.`,
		RunE: runVault,
	}

	cmd.Flags().StringSliceP("type", "t", nil, "filter by item type (repeatable)")
	cmd.Flags().String("sort", "date", "sort key (date, price)")
	cmd.Flags().String("dir", "desc", "sort direction (asc, desc)")
	cmd.Flags().Bool("next", false, "show only the next item to expire")
	cmd.Flags().Bool("tui", false, "open the interactive browser")

	_ = viper.BindPFlag("vault.types", cmd.Flags().Lookup("type"))
	_ = viper.BindPFlag("vault.sort", cmd.Flags().Lookup("sort"))
	_ = viper.BindPFlag("vault.dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("vault.next", cmd.Flags().Lookup("next"))
	_ = viper.BindPFlag("vault.tui", cmd.Flags().Lookup("tui"))

	return cmd
}

func runVault(cmd *cobra.Command, _ []string) error {
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

	if viper.GetBool("vault.tui") {
		return tui.Run(ctx, tui.Config{
			Vault:          vaultSvc,
			RefreshOnStart: true,
		})
	}

	if err := vaultSvc.Refresh(ctx); err != nil {
		return err
	}

	if viper.GetBool("vault.next") {
		next := vaultSvc.NextToExpire(time.Now())
		if next == nil {
			fmt.Println(cli.FormatInfo("Nothing in your vault is about to expire"))
			return nil
		}
		fmt.Println(cli.RenderBox("Next to expire", formatCard(*next.Card)))
		return nil
	}

	spec, err := buildFilter()
	if err != nil {
		return err
	}

	items := spec.Apply(vaultSvc.Store().Items())
	if len(items) == 0 {
		fmt.Println(cli.FormatInfo("No items match"))
		return nil
	}

	printItems(items)
	return nil
}

// buildFilter translates the vault flags into a filter spec.
func buildFilter() (vault.FilterSpec, error) {
	spec := vault.DefaultFilter()

	for _, raw := range viper.GetStringSlice("vault.types") {
		t := model.ItemType(raw)
		if err := t.Validate(); err != nil {
			return vault.FilterSpec{}, err
		}
		spec.Types = append(spec.Types, t)
	}

	switch viper.GetString("vault.sort") {
	case "date":
		spec.SortBy = vault.SortByDate
	case "price":
		spec.SortBy = vault.SortByPrice
	default:
		return vault.FilterSpec{}, fmt.Errorf("invalid sort key: %s", viper.GetString("vault.sort"))
	}

	switch viper.GetString("vault.dir") {
	case "asc":
		spec.SortDir = vault.SortAsc
	case "desc":
		spec.SortDir = vault.SortDesc
	default:
		return vault.FilterSpec{}, fmt.Errorf("invalid sort direction: %s", viper.GetString("vault.dir"))
	}

	return spec, nil
}

func printItems(items []model.VaultItem) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tTYPE\tEXPIRES\tAMOUNT")
	for _, item := range items {
		card := item.Card
		if card == nil {
			continue
		}

		expiry := "-"
		if at := card.ExpiresAt(); !at.IsZero() {
			expiry = at.Format("2006-01-02")
		}

		amount := "-"
		if card.Amount > 0 {
			amount = fmt.Sprintf("%.2f %s", card.Amount, card.Currency)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", card.Title, card.Type.DisplayName(), expiry, amount)
	}
	_ = w.Flush()
}

func formatCard(card model.ItemCard) string {
	lines := []string{
		fmt.Sprintf("Title:   %s", card.Title),
		fmt.Sprintf("Type:    %s", card.Type.DisplayName()),
		fmt.Sprintf("Expires: %s", card.ExpiryDate),
	}
	if card.Amount > 0 {
		lines = append(lines, fmt.Sprintf("Amount:  %.2f %s", card.Amount, card.Currency))
	}
	if card.ScannedData != "" {
		lines = append(lines, fmt.Sprintf("Code:    %s", card.ScannedData))
	}
	return strings.Join(lines, "\n")
}
