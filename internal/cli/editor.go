package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Duckhouse1/expira/internal/model"
)

// DraftEditor implements the interactive review step of a capture run:
// the draft card is shown and the user accepts, edits fields, or abandons.
type DraftEditor struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewDraftEditor creates a draft editor reading from reader and writing
// styled output to writer.
func NewDraftEditor(reader io.Reader, writer io.Writer) *DraftEditor {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &DraftEditor{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// EditDraft shows the draft and loops on user choices until the card is
// accepted or abandoned. Abandoning returns confirmed=false and no error.
func (e *DraftEditor) EditDraft(ctx context.Context, draft model.ItemCard) (model.ItemCard, bool, error) {
	card := draft

	for {
		select {
		case <-ctx.Done():
			return model.ItemCard{}, false, ctx.Err()
		default:
		}

		if _, err := fmt.Fprintln(e.writer, RenderBox("Review Item", e.formatCard(card))); err != nil {
			return model.ItemCard{}, false, fmt.Errorf("failed to write draft box: %w", err)
		}

		if _, err := fmt.Fprintln(e.writer, "  [A] Accept and save"); err != nil {
			return model.ItemCard{}, false, fmt.Errorf("failed to write accept option: %w", err)
		}
		if _, err := fmt.Fprintln(e.writer, "  [E] Edit a field"); err != nil {
			return model.ItemCard{}, false, fmt.Errorf("failed to write edit option: %w", err)
		}
		if _, err := fmt.Fprintln(e.writer, "  [X] Discard"); err != nil {
			return model.ItemCard{}, false, fmt.Errorf("failed to write discard option: %w", err)
		}

		choice, err := e.promptChoice(ctx, "Choice", []string{"a", "e", "x"})
		if err != nil {
			return model.ItemCard{}, false, err
		}

		switch choice {
		case "a":
			return card, true, nil
		case "x":
			if _, err := fmt.Fprintln(e.writer, FormatWarning("Capture discarded")); err != nil {
				return model.ItemCard{}, false, fmt.Errorf("failed to write discard notice: %w", err)
			}
			return model.ItemCard{}, false, nil
		case "e":
			card, err = e.editField(ctx, card)
			if err != nil {
				return model.ItemCard{}, false, err
			}
		}
	}
}

func (e *DraftEditor) formatCard(card model.ItemCard) string {
	lines := []string{
		fmt.Sprintf("Title:       %s", card.Title),
		fmt.Sprintf("Type:        %s", card.Type.DisplayName()),
		fmt.Sprintf("Description: %s", card.Description),
		fmt.Sprintf("Expires:     %s", card.ExpiryDate),
		fmt.Sprintf("Amount:      %.2f %s", card.Amount, card.Currency),
	}
	if card.ScannedData != "" {
		lines = append(lines, fmt.Sprintf("Code:        %s (%s)", card.ScannedData, card.DataType))
	}
	return strings.Join(lines, "\n")
}

// editField prompts for one field and its new value. Blank input keeps
// the current value.
func (e *DraftEditor) editField(ctx context.Context, card model.ItemCard) (model.ItemCard, error) {
	choice, err := e.promptChoice(ctx, "Field (title/desc/expiry/amount/currency)",
		[]string{"title", "desc", "expiry", "amount", "currency"})
	if err != nil {
		return model.ItemCard{}, err
	}

	if _, err := fmt.Fprint(e.writer, FormatPrompt("New value")); err != nil {
		return model.ItemCard{}, fmt.Errorf("failed to write value prompt: %w", err)
	}
	value, err := e.reader.ReadLine(ctx)
	if err != nil {
		return model.ItemCard{}, err
	}
	if value == "" {
		return card, nil
	}

	switch choice {
	case "title":
		card.Title = value
	case "desc":
		card.Description = value
	case "expiry":
		if parsed := model.ParseExpiry(value); parsed.IsZero() {
			if _, err := fmt.Fprintln(e.writer, FormatWarning("Unrecognized date, keeping previous value")); err != nil {
				return model.ItemCard{}, fmt.Errorf("failed to write date warning: %w", err)
			}
		} else {
			card.ExpiryDate = value
		}
	case "amount":
		amount, parseErr := strconv.ParseFloat(value, 64)
		if parseErr != nil || amount < 0 {
			if _, err := fmt.Fprintln(e.writer, FormatWarning("Invalid amount, keeping previous value")); err != nil {
				return model.ItemCard{}, fmt.Errorf("failed to write amount warning: %w", err)
			}
		} else {
			card.Amount = amount
		}
	case "currency":
		card.Currency = strings.ToUpper(value)
	}

	return card, nil
}

// promptChoice reads input until it matches one of the valid choices.
func (e *DraftEditor) promptChoice(ctx context.Context, prompt string, valid []string) (string, error) {
	for {
		if _, err := fmt.Fprint(e.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := e.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(strings.TrimSpace(line))
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(e.writer, SubtleStyle.Render("Please enter one of: "+strings.Join(valid, ", "))); err != nil {
			return "", fmt.Errorf("failed to write retry hint: %w", err)
		}
	}
}
