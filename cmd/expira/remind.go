package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Duckhouse1/expira/internal/cli"
	"github.com/Duckhouse1/expira/internal/remind"
)

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Show due expiry reminders",
		Long: `Surface every queued reminder whose fire time has passed. Each
reminder is shown once and then marked delivered.`,
		RunE: runRemind,
	}
}

func runRemind(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	scheduler := remind.NewScheduler(store)
	due, err := scheduler.Due(ctx)
	if err != nil {
		return err
	}

	if len(due) == 0 {
		fmt.Println(cli.FormatInfo("No reminders due"))
		return nil
	}

	for _, r := range due {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %s", r.Title, r.Body)))
	}

	return nil
}
