package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Duckhouse1/expira/internal/cli"
	"github.com/Duckhouse1/expira/internal/common"
	"github.com/Duckhouse1/expira/internal/config"
	"github.com/Duckhouse1/expira/internal/extract"
	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/pipeline"
	"github.com/Duckhouse1/expira/internal/remind"
)

func captureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a new vault item from a photo",
		Long: `Run one capture flow: pick an image, optionally enter the card code,
let the vision service extract the details, review the draft and save
the item to your vault.`,
		RunE: runCapture,
	}

	cmd.Flags().StringP("type", "t", string(model.TypeGiftCard),
		fmt.Sprintf("item type (%s)", strings.Join(typeNames(), ", ")))
	cmd.Flags().StringP("image", "i", "", "image file to capture (skips the path prompt)")

	_ = viper.BindPFlag("capture.type", cmd.Flags().Lookup("type"))
	_ = viper.BindPFlag("capture.image", cmd.Flags().Lookup("image"))

	return cmd
}

func typeNames() []string {
	types := model.AllTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func runCapture(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	itemType := model.ItemType(viper.GetString("capture.type"))
	if err := itemType.Validate(); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	vaultSvc, client, err := initVault(store)
	if err != nil {
		return err
	}

	extractCfg, err := config.LoadExtractionConfig()
	if err != nil {
		return err
	}
	extractor, err := extract.NewClient(extractCfg)
	if err != nil {
		return fmt.Errorf("failed to create extraction client: %w", err)
	}

	photos := cli.NewPhotoPrompt(os.Stdin, os.Stdout)
	photos.Path = viper.GetString("capture.image")
	scanner := cli.NewScanPrompt(os.Stdin, os.Stdout)
	editor := cli.NewDraftEditor(os.Stdin, os.Stdout)
	scheduler := remind.NewScheduler(store)

	engine := pipeline.New(photos, scanner, extractor, editor, client, vaultSvc.Store(), scheduler)

	item, err := engine.Run(ctx, itemType)
	if err != nil {
		if errors.Is(err, common.ErrCaptureAborted) {
			fmt.Println(cli.FormatWarning("Capture cancelled"))
			return nil
		}
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			slog.Debug("Capture failed", "error", err)
			return fmt.Errorf("%s", userErr.UserMessage)
		}
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %q to your vault", item.Card.Title)))
	return nil
}
