package tui

import "github.com/Duckhouse1/expira/internal/model"

// itemsLoadedMsg delivers a fresh snapshot of the vault collection.
type itemsLoadedMsg struct {
	items []model.VaultItem
}

// itemDeletedMsg confirms a delete round-trip.
type itemDeletedMsg struct {
	title string
}

// errMsg carries a failed command's error into the update loop.
type errMsg struct {
	err error
}
