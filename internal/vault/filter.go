// Package vault implements the session collection of vault items and the
// filtering and sorting engine that derives the displayed view.
package vault

import (
	"math"
	"sort"

	"github.com/Duckhouse1/expira/internal/model"
)

// SortBy selects the single sort key of a filter spec.
type SortBy string

// SortDir selects the sort direction.
type SortDir string

// Sort key and direction constants.
const (
	SortByDate  SortBy  = "date"
	SortByPrice SortBy  = "price"
	SortAsc     SortDir = "asc"
	SortDesc    SortDir = "desc"
)

// FilterSpec is the user-chosen combination of type filter, sort key and
// sort direction. An empty Types slice means no type filtering at all,
// which is distinct from keeping nothing.
type FilterSpec struct {
	SortBy  SortBy
	SortDir SortDir
	Types   []model.ItemType
}

// DefaultFilter returns the cleared spec: no type filter, newest expiry first.
func DefaultFilter() FilterSpec {
	return FilterSpec{
		Types:   nil,
		SortBy:  SortByDate,
		SortDir: SortDesc,
	}
}

// Active reports whether the spec differs from the cleared default.
func (s FilterSpec) Active() bool {
	return len(s.Types) > 0 || s.SortBy != SortByDate || s.SortDir != SortDesc
}

// Apply derives the displayed view: type filter first, then a stable sort
// on exactly one key. The input slice is never mutated, and applying the
// same spec twice yields the same result.
//
// Items with no card are dropped when a type filter is active and kept
// otherwise. Missing or unparsable expiry dates sort below every real
// date, pre-1970 ones included; missing amounts sort as zero. Ties keep
// their prior relative order.
func (s FilterSpec) Apply(items []model.VaultItem) []model.VaultItem {
	out := make([]model.VaultItem, 0, len(items))

	if len(s.Types) > 0 {
		wanted := make(map[model.ItemType]bool, len(s.Types))
		for _, t := range s.Types {
			wanted[t] = true
		}
		for _, item := range items {
			if item.Card != nil && wanted[item.Card.Type] {
				out = append(out, item)
			}
		}
	} else {
		out = append(out, items...)
	}

	switch s.SortBy {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := amountKey(out[i]), amountKey(out[j])
			if s.SortDir == SortAsc {
				return a < b
			}
			return a > b
		})
	default: // SortByDate
		sort.SliceStable(out, func(i, j int) bool {
			a, b := dateKey(out[i]), dateKey(out[j])
			if s.SortDir == SortAsc {
				return a < b
			}
			return a > b
		})
	}

	return out
}

func dateKey(item model.VaultItem) int64 {
	if item.Card == nil {
		return math.MinInt64
	}
	t := item.Card.ExpiresAt()
	if t.IsZero() {
		return math.MinInt64
	}
	return t.UnixMilli()
}

func amountKey(item model.VaultItem) float64 {
	if item.Card == nil {
		return 0
	}
	return item.Card.Amount
}
