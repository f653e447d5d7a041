package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/vault"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C6FF0")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7C6FF0"))

	expiredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	soonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C6FF0")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateFilter:
		return m.filterView()
	case StateConfirmDelete:
		return m.confirmDeleteView()
	case StateHelp:
		return m.helpView()
	default:
		return m.browseView()
	}
}

func (m Model) browseView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Expira Vault"))
	b.WriteString("\n")

	if m.loading {
		b.WriteString(subtleStyle.Render("Refreshing..."))
		b.WriteString("\n\n")
	}
	if m.lastError != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastError.Error()))
		b.WriteString("\n\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(subtleStyle.Render("No items to show."))
		b.WriteString("\n")
	}

	now := time.Now()
	for i, item := range m.visible {
		line := m.formatItem(item, now)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// formatItem renders one list row: title, type, amount and expiry with a
// colour hint for expired and soon-to-expire items.
func (m Model) formatItem(item model.VaultItem, now time.Time) string {
	card := item.Card
	if card == nil {
		return subtleStyle.Render("(empty record)")
	}

	expiry := card.ExpiresAt()
	var expiryText string
	switch {
	case expiry.IsZero():
		expiryText = subtleStyle.Render("no expiry")
	case expiry.Before(now):
		expiryText = expiredStyle.Render("expired " + expiry.Format("2006-01-02"))
	case expiry.Before(now.Add(7 * 24 * time.Hour)):
		expiryText = soonStyle.Render("expires " + expiry.Format("2006-01-02"))
	default:
		expiryText = "expires " + expiry.Format("2006-01-02")
	}

	amount := ""
	if card.Amount > 0 {
		amount = fmt.Sprintf("  %.2f %s", card.Amount, card.Currency)
	}

	return fmt.Sprintf("%-30s %-12s%s  %s",
		truncate(card.Title, 30), card.Type.DisplayName(), amount, expiryText)
}

func (m Model) statusLine() string {
	parts := []string{
		fmt.Sprintf("%d/%d items", len(m.visible), len(m.items)),
	}
	if m.filter.Active() {
		parts = append(parts, "filter on")
	}
	parts = append(parts, "f filter  r refresh  x delete  ? help  q quit")
	return subtleStyle.Render(strings.Join(parts, "  ·  "))
}

// filterView renders the draft spec dialog. Nothing is applied until
// enter commits the draft.
func (m Model) filterView() string {
	var b strings.Builder

	b.WriteString("Item types (toggle with number):\n")
	for i, t := range model.AllTypes() {
		mark := "[ ]"
		for _, chosen := range m.draft.Types {
			if chosen == t {
				mark = "[x]"
				break
			}
		}
		b.WriteString(fmt.Sprintf("  %d %s %s\n", i+1, mark, t.DisplayName()))
	}

	sortField := "expiry date"
	if m.draft.SortBy == vault.SortByPrice {
		sortField = "amount"
	}
	direction := "descending"
	if m.draft.SortDir == vault.SortAsc {
		direction = "ascending"
	}

	b.WriteString(fmt.Sprintf("\nSort by: %s (s)\nDirection: %s (d)\n", sortField, direction))
	b.WriteString(subtleStyle.Render("\nenter apply  ·  c clear  ·  esc cancel"))

	return dialogStyle.Render(titleStyle.UnsetMargins().Render("Filter & Sort") + "\n\n" + b.String())
}

func (m Model) confirmDeleteView() string {
	title := ""
	if m.cursor < len(m.visible) && m.visible[m.cursor].Card != nil {
		title = m.visible[m.cursor].Card.Title
	}
	content := fmt.Sprintf("Delete %q from the vault?\n\n", title) +
		subtleStyle.Render("y/enter confirm  ·  any other key cancel")
	return dialogStyle.Render(content)
}

func (m Model) helpView() string {
	rows := []string{
		"↑/k, ↓/j    move",
		"PgUp, PgDn  move by a page",
		"g, G        jump to start / end",
		"r           refresh from backend",
		"f           open filter dialog",
		"c           clear filter",
		"x           delete selected item",
		"q           quit",
	}
	return dialogStyle.Render(titleStyle.UnsetMargins().Render("Keys") + "\n\n" +
		strings.Join(rows, "\n") + "\n\n" + subtleStyle.Render("any key to close"))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
