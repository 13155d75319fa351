// Package order maintains the per-scope ordering index: for every
// scope ("all", "untagged", one per tag ID) an ordered sequence of
// account tokens. The index is kept consistent incrementally on every
// mutation that can affect scope membership.
package order

import "github.com/tokswap/tokswap/internal/model"

// Reserved scope keys. Every tag ID is also a scope key.
const (
	ScopeAll      = "all"
	ScopeUntagged = "untagged"
)

// Orders maps scope key → ordered token sequence.
type Orders map[string][]string

// Clone returns a deep copy. Mutating operations work on copies so a
// published state never shares slices with an in-progress update.
func (o Orders) Clone() Orders {
	out := make(Orders, len(o))
	for k, seq := range o {
		out[k] = append([]string(nil), seq...)
	}
	return out
}

// Contains reports whether token is present in the scope's sequence.
func (o Orders) Contains(scope, token string) bool {
	for _, t := range o[scope] {
		if t == token {
			return true
		}
	}
	return false
}

// Key maps a filter selection to the scope whose order governs the
// view: "" and "all" share the "all" scope.
func Key(filterTagID string) string {
	if filterTagID == "" || filterTagID == ScopeAll {
		return ScopeAll
	}
	return filterTagID
}

// Normalize repairs a loaded index against the account and tag
// collections: ensures the reserved scopes and one scope per tag
// exist, and that every account appears in "all", in each of its tag
// scopes, and in "untagged" when it has no tags (appending, never
// reordering). It reports whether anything changed so callers know to
// persist the repair.
func Normalize(o Orders, accounts []model.Account, tags []model.Tag) (Orders, bool) {
	out := o.Clone()
	changed := false

	if _, ok := out[ScopeAll]; !ok {
		all := make([]string, 0, len(accounts))
		for _, acc := range accounts {
			all = append(all, acc.Token)
		}
		out[ScopeAll] = all
		changed = true
	}
	for _, tag := range tags {
		if _, ok := out[tag.ID]; !ok {
			out[tag.ID] = []string{}
			changed = true
		}
	}
	if _, ok := out[ScopeUntagged]; !ok {
		untagged := []string{}
		for _, acc := range accounts {
			if acc.Untagged() {
				untagged = append(untagged, acc.Token)
			}
		}
		out[ScopeUntagged] = untagged
		changed = true
	}

	for _, acc := range accounts {
		if !out.Contains(ScopeAll, acc.Token) {
			out[ScopeAll] = append(out[ScopeAll], acc.Token)
			changed = true
		}
		if acc.Untagged() && !out.Contains(ScopeUntagged, acc.Token) {
			out[ScopeUntagged] = append(out[ScopeUntagged], acc.Token)
			changed = true
		}
		for _, tagID := range acc.TagIDs {
			if _, ok := out[tagID]; !ok {
				continue // stale tag reference, no scope to repair
			}
			if !out.Contains(tagID, acc.Token) {
				out[tagID] = append(out[tagID], acc.Token)
				changed = true
			}
		}
	}

	return out, changed
}

// Add records a newly created account: append to "all", then to each
// of its tag scopes (creating them as needed), or to "untagged" when
// it has no tags.
func Add(o Orders, acc model.Account) Orders {
	out := o.Clone()
	out[ScopeAll] = append(out[ScopeAll], acc.Token)
	if acc.Untagged() {
		out[ScopeUntagged] = appendMissing(out[ScopeUntagged], acc.Token)
		return out
	}
	for _, tagID := range acc.TagIDs {
		out[tagID] = appendMissing(out[tagID], acc.Token)
	}
	return out
}

// Retag adjusts scope membership after an account's tag set changed
// from oldTags to newTags: strike the token from removed tag scopes,
// append to added ones, and handle the tagged/untagged transitions.
// Appends are idempotent.
func Retag(o Orders, token string, oldTags, newTags []string) Orders {
	out := o.Clone()

	oldSet := toSet(oldTags)
	newSet := toSet(newTags)

	for _, tagID := range oldTags {
		if !newSet[tagID] {
			out[tagID] = strike(out[tagID], token)
		}
	}
	for _, tagID := range newTags {
		if !oldSet[tagID] {
			out[tagID] = appendMissing(out[tagID], token)
		}
	}

	wasUntagged := len(oldTags) == 0
	isUntagged := len(newTags) == 0
	if wasUntagged && !isUntagged {
		out[ScopeUntagged] = strike(out[ScopeUntagged], token)
	}
	if !wasUntagged && isUntagged {
		out[ScopeUntagged] = appendMissing(out[ScopeUntagged], token)
	}

	return out
}

// RemoveAccount strikes the token from every scope.
func RemoveAccount(o Orders, token string) Orders {
	out := make(Orders, len(o))
	for scope, seq := range o {
		out[scope] = strike(seq, token)
	}
	return out
}

// RemoveScope deletes a tag's scope outright. Members are not
// migrated anywhere; the caller cascades the tag removal through the
// accounts themselves.
func RemoveScope(o Orders, tagID string) Orders {
	out := o.Clone()
	delete(out, tagID)
	return out
}

// Replace swaps a scope's stored sequence wholesale with the captured
// order from a completed reorder gesture. No partial merge.
func Replace(o Orders, scope string, tokens []string) Orders {
	out := o.Clone()
	out[scope] = append([]string(nil), tokens...)
	return out
}

func appendMissing(seq []string, token string) []string {
	for _, t := range seq {
		if t == token {
			return seq
		}
	}
	return append(seq, token)
}

func strike(seq []string, token string) []string {
	out := make([]string, 0, len(seq))
	for _, t := range seq {
		if t != token {
			out = append(out, t)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
