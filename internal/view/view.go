// Package view computes the display sequence for the account list.
// The computation is a pure function of state; the reconciler depends
// on that for correct diffing.
package view

import (
	"sort"
	"strings"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
)

// Visible returns the accounts to display, in order: scope subset,
// then case-insensitive substring filter on email, then a stable sort
// by position in the governing scope's sequence. Tokens missing from
// the sequence sort after all indexed tokens, keeping their relative
// input order.
func Visible(accounts []model.Account, filterTagID, filter string, orders order.Orders) []model.Account {
	filtered := make([]model.Account, 0, len(accounts))
	for _, acc := range accounts {
		switch {
		case filterTagID == order.ScopeUntagged:
			if !acc.Untagged() {
				continue
			}
		case filterTagID != "" && filterTagID != order.ScopeAll:
			if !acc.HasTag(filterTagID) {
				continue
			}
		}
		filtered = append(filtered, acc)
	}

	if filter != "" {
		needle := strings.ToLower(filter)
		kept := filtered[:0]
		for _, acc := range filtered {
			if strings.Contains(strings.ToLower(acc.Email), needle) {
				kept = append(kept, acc)
			}
		}
		filtered = kept
	}

	seq := orders[order.Key(filterTagID)]
	pos := make(map[string]int, len(seq))
	for i, token := range seq {
		pos[token] = i
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		pi, iOK := pos[filtered[i].Token]
		pj, jOK := pos[filtered[j].Token]
		switch {
		case iOK && jOK:
			return pi < pj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return false
		}
	})

	return filtered
}

// Tokens returns just the token sequence of a display slice.
func Tokens(accounts []model.Account) []string {
	tokens := make([]string, len(accounts))
	for i, acc := range accounts {
		tokens[i] = acc.Token
	}
	return tokens
}

// ScopeEmpty reports whether the given filter scope matches no
// account. Used to auto-reset an emptied filtered view back to "all".
func ScopeEmpty(accounts []model.Account, filterTagID string) bool {
	if filterTagID == "" || filterTagID == order.ScopeAll {
		return false
	}
	for _, acc := range accounts {
		if filterTagID == order.ScopeUntagged {
			if acc.Untagged() {
				return false
			}
			continue
		}
		if acc.HasTag(filterTagID) {
			return false
		}
	}
	return true
}
