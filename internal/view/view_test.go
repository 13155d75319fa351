package view_test

import (
	"reflect"
	"testing"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
	"github.com/tokswap/tokswap/internal/view"
)

func accounts() []model.Account {
	return []model.Account{
		{Token: "token-work-0001", Email: "alice@work.com", TagIDs: []string{"tag_work"}},
		{Token: "token-home-0002", Email: "alice@home.com"},
		{Token: "token-work-0003", Email: "bob@work.com", TagIDs: []string{"tag_work"}},
	}
}

func tokens(accs []model.Account) []string {
	return view.Tokens(accs)
}

func TestVisible_AllScopeFollowsOrder(t *testing.T) {
	orders := order.Orders{
		order.ScopeAll: {"token-work-0003", "token-home-0002", "token-work-0001"},
	}
	got := tokens(view.Visible(accounts(), "all", "", orders))
	want := []string{"token-work-0003", "token-home-0002", "token-work-0001"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestVisible_EmptyFilterDefaultsToAll(t *testing.T) {
	orders := order.Orders{
		order.ScopeAll: {"token-home-0002", "token-work-0001", "token-work-0003"},
	}
	got := tokens(view.Visible(accounts(), "", "", orders))
	if len(got) != 3 {
		t.Fatalf("expected all 3 accounts, got %v", got)
	}
	if got[0] != "token-home-0002" {
		t.Errorf("expected the all-scope order to govern, got %v", got)
	}
}

func TestVisible_TagScope(t *testing.T) {
	orders := order.Orders{
		order.ScopeAll: {"token-work-0001", "token-home-0002", "token-work-0003"},
		"tag_work":     {"token-work-0003", "token-work-0001"},
	}
	got := tokens(view.Visible(accounts(), "tag_work", "", orders))
	want := []string{"token-work-0003", "token-work-0001"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestVisible_UntaggedScope(t *testing.T) {
	orders := order.Orders{
		order.ScopeUntagged: {"token-home-0002"},
	}
	got := tokens(view.Visible(accounts(), "untagged", "", orders))
	if !reflect.DeepEqual(got, []string{"token-home-0002"}) {
		t.Errorf("visible = %v", got)
	}
}

func TestVisible_TextFilterCaseInsensitive(t *testing.T) {
	orders := order.Orders{
		order.ScopeAll: {"token-work-0001", "token-home-0002", "token-work-0003"},
	}
	got := tokens(view.Visible(accounts(), "all", "WORK", orders))
	want := []string{"token-work-0001", "token-work-0003"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestVisible_FilterComposesWithScope(t *testing.T) {
	orders := order.Orders{
		"tag_work": {"token-work-0003", "token-work-0001"},
	}
	got := tokens(view.Visible(accounts(), "tag_work", "bob", orders))
	if !reflect.DeepEqual(got, []string{"token-work-0003"}) {
		t.Errorf("visible = %v", got)
	}
}

// Tokens missing from the scope's order sort after the indexed ones,
// keeping their relative collection order.
func TestVisible_UnindexedTokensSortLast(t *testing.T) {
	orders := order.Orders{
		order.ScopeAll: {"token-work-0003"},
	}
	got := tokens(view.Visible(accounts(), "all", "", orders))
	want := []string{"token-work-0003", "token-work-0001", "token-home-0002"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestVisible_DoesNotMutateInput(t *testing.T) {
	accs := accounts()
	orders := order.Orders{
		order.ScopeAll: {"token-work-0003", "token-home-0002", "token-work-0001"},
	}
	_ = view.Visible(accs, "all", "", orders)
	if accs[0].Token != "token-work-0001" {
		t.Errorf("input slice was reordered: %v", tokens(accs))
	}
}

func TestScopeEmpty(t *testing.T) {
	accs := accounts()
	tests := []struct {
		filter string
		want   bool
	}{
		{"all", false},
		{"", false},
		{"untagged", false},
		{"tag_work", false},
		{"tag_gone", true},
	}
	for _, tt := range tests {
		if got := view.ScopeEmpty(accs, tt.filter); got != tt.want {
			t.Errorf("ScopeEmpty(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}
