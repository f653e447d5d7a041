// Package tui implements the interactive vault browser: a filterable,
// sortable list of items with refresh and delete actions.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Duckhouse1/expira/internal/model"
	"github.com/Duckhouse1/expira/internal/vault"
)

// State represents the current state of the TUI.
type State int

// TUI states.
const (
	StateBrowse State = iota
	StateFilter
	StateConfirmDelete
	StateHelp
)

// Config holds the browser configuration.
type Config struct {
	Vault *vault.Service
	// RefreshOnStart pulls the remote collection before first paint.
	RefreshOnStart bool
	Width          int
	Height         int
}

// Model holds the browser state. The visible list is derived from the
// full collection: filtered and sorted while a filter is active, the
// collection in its own order otherwise. The collection itself is never
// mutated by filtering.
type Model struct {
	vault     *vault.Service
	lastError error
	keymap    KeyMap
	items     []model.VaultItem
	visible   []model.VaultItem
	filter    vault.FilterSpec
	// draft holds the filter dialog's uncommitted edits. Cancelling the
	// dialog discards it; only Confirm copies it into filter.
	draft   vault.FilterSpec
	state   State
	cursor  int
	width   int
	height  int
	loading bool
	config  Config

	quitting bool
}

// newModel creates a browser model with the given configuration.
func newModel(cfg Config) Model {
	return Model{
		vault:  cfg.Vault,
		keymap: DefaultKeyMap(),
		filter: vault.DefaultFilter(),
		state:  StateBrowse,
		width:  cfg.Width,
		height: cfg.Height,
		config: cfg,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, m.loadItems()}
	if m.config.RefreshOnStart {
		cmds = []tea.Cmd{tea.EnterAltScreen, m.refresh()}
	}
	return tea.Batch(cmds...)
}

// loadItems snapshots the session store.
func (m Model) loadItems() tea.Cmd {
	return func() tea.Msg {
		return itemsLoadedMsg{items: m.vault.Store().Items()}
	}
}

// refresh pulls the remote collection, then snapshots the store.
func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		if err := m.vault.Refresh(context.Background()); err != nil {
			return errMsg{err: err}
		}
		return itemsLoadedMsg{items: m.vault.Store().Items()}
	}
}

// deleteSelected removes the item under the cursor.
func (m Model) deleteSelected() tea.Cmd {
	if m.cursor >= len(m.visible) {
		return nil
	}
	item := m.visible[m.cursor]
	return func() tea.Msg {
		m.vault.Delete(context.Background(), item)
		title := ""
		if item.Card != nil {
			title = item.Card.Title
		}
		return itemDeletedMsg{title: title}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case itemsLoadedMsg:
		m.items = msg.items
		m.loading = false
		m.lastError = nil
		m.applyFilter()
		return m, nil

	case itemDeletedMsg:
		return m, m.loadItems()

	case errMsg:
		m.loading = false
		m.lastError = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applyFilter re-derives the visible list and clamps the cursor. A
// cleared filter shows the collection as-is; only an active filter
// re-sorts the view.
func (m *Model) applyFilter() {
	if m.filter.Active() {
		m.visible = m.filter.Apply(m.items)
	} else {
		m.visible = append([]model.VaultItem(nil), m.items...)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateFilter:
		return m.handleFilterKey(msg)
	case StateConfirmDelete:
		return m.handleConfirmKey(msg)
	case StateHelp:
		m.state = StateBrowse
		return m, nil
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.PageUp):
		m.cursor -= m.pageSize()
		if m.cursor < 0 {
			m.cursor = 0
		}

	case key.Matches(msg, m.keymap.PageDown):
		m.cursor += m.pageSize()
		if m.cursor > len(m.visible)-1 {
			m.cursor = len(m.visible) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0

	case key.Matches(msg, m.keymap.End):
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}

	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		return m, m.refresh()

	case key.Matches(msg, m.keymap.Delete):
		if len(m.visible) > 0 {
			m.state = StateConfirmDelete
		}

	case key.Matches(msg, m.keymap.ToggleFilter):
		m.draft = m.filter
		m.state = StateFilter

	case key.Matches(msg, m.keymap.ClearFilter):
		m.filter = vault.DefaultFilter()
		m.applyFilter()

	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
	}

	return m, nil
}

// handleFilterKey edits the draft spec. Number keys toggle item types,
// s and d cycle the sort key and direction. Enter commits, esc discards.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		m.filter = m.draft
		m.state = StateBrowse
		m.applyFilter()
		return m, nil

	case key.Matches(msg, m.keymap.Cancel):
		m.state = StateBrowse
		return m, nil

	case key.Matches(msg, m.keymap.ClearFilter):
		m.draft = vault.DefaultFilter()
		return m, nil

	case key.Matches(msg, m.keymap.SortField):
		if m.draft.SortBy == vault.SortByDate {
			m.draft.SortBy = vault.SortByPrice
		} else {
			m.draft.SortBy = vault.SortByDate
		}
		return m, nil

	case key.Matches(msg, m.keymap.SortDir):
		if m.draft.SortDir == vault.SortAsc {
			m.draft.SortDir = vault.SortDesc
		} else {
			m.draft.SortDir = vault.SortAsc
		}
		return m, nil
	}

	types := model.AllTypes()
	pressed := msg.String()
	if pressed >= "1" && pressed <= "9" {
		idx := int(pressed[0] - '1')
		if idx < len(types) {
			m.draft.Types = toggleType(m.draft.Types, types[idx])
		}
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.state = StateBrowse
		return m, m.deleteSelected()
	default:
		m.state = StateBrowse
		return m, nil
	}
}

// pageSize is the cursor jump for page up/down, leaving room for the
// header and status line. Falls back to a fixed step before the first
// window-size message arrives.
func (m Model) pageSize() int {
	size := m.height - 6
	if size < 1 {
		size = 10
	}
	return size
}

// toggleType adds the type if absent, removes it if present.
func toggleType(types []model.ItemType, t model.ItemType) []model.ItemType {
	for i, existing := range types {
		if existing == t {
			return append(types[:i:i], types[i+1:]...)
		}
	}
	return append(append([]model.ItemType(nil), types...), t)
}
