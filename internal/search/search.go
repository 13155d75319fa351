package search

import (
	"github.com/sahilm/fuzzy"
	"github.com/tokswap/tokswap/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Account        *model.Account
	MatchedIndexes []int
	Score          int
}

// accountLabels implements fuzzy.Source for an account slice.
type accountLabels []*model.Account

func (al accountLabels) String(i int) string {
	return al[i].Email
}

func (al accountLabels) Len() int {
	return len(al)
}

// FuzzySearchAccounts searches all accounts by label using fuzzy
// matching. Returns results sorted by match score (best first).
func FuzzySearchAccounts(accounts []model.Account, query string) []SearchResult {
	if query == "" {
		return nil
	}

	labels := make(accountLabels, len(accounts))
	for i := range accounts {
		labels[i] = &accounts[i]
	}

	matches := fuzzy.FindFrom(query, labels)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Account:        labels[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
