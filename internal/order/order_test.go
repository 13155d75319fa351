package order_test

import (
	"reflect"
	"testing"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
)

func acc(token string, tagIDs ...string) model.Account {
	return model.Account{Token: token, Email: token + "@example.com", TagIDs: tagIDs}
}

func TestKey(t *testing.T) {
	tests := []struct {
		filter string
		want   string
	}{
		{"", "all"},
		{"all", "all"},
		{"untagged", "untagged"},
		{"tag_abc", "tag_abc"},
	}
	for _, tt := range tests {
		if got := order.Key(tt.filter); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.filter, got, tt.want)
		}
	}
}

func TestNormalize_EmptyIndex(t *testing.T) {
	accounts := []model.Account{
		acc("token-aaaa-0001", "tag_1"),
		acc("token-aaaa-0002"),
	}
	tags := []model.Tag{{ID: "tag_1", Name: "work"}}

	out, changed := order.Normalize(order.Orders{}, accounts, tags)
	if !changed {
		t.Fatal("expected Normalize to report a change on an empty index")
	}

	wantAll := []string{"token-aaaa-0001", "token-aaaa-0002"}
	if !reflect.DeepEqual(out[order.ScopeAll], wantAll) {
		t.Errorf("all scope = %v, want %v", out[order.ScopeAll], wantAll)
	}
	if !reflect.DeepEqual(out[order.ScopeUntagged], []string{"token-aaaa-0002"}) {
		t.Errorf("untagged scope = %v", out[order.ScopeUntagged])
	}
	if !reflect.DeepEqual(out["tag_1"], []string{"token-aaaa-0001"}) {
		t.Errorf("tag scope = %v", out["tag_1"])
	}
}

func TestNormalize_PreservesExistingOrder(t *testing.T) {
	accounts := []model.Account{
		acc("token-aaaa-0001"),
		acc("token-aaaa-0002"),
		acc("token-aaaa-0003"),
	}
	// Custom order with one account missing.
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0003", "token-aaaa-0001"},
		order.ScopeUntagged: {"token-aaaa-0003", "token-aaaa-0001"},
	}

	out, changed := order.Normalize(in, accounts, nil)
	if !changed {
		t.Fatal("expected repair for missing account")
	}
	want := []string{"token-aaaa-0003", "token-aaaa-0001", "token-aaaa-0002"}
	if !reflect.DeepEqual(out[order.ScopeAll], want) {
		t.Errorf("all scope = %v, want %v (missing tokens append, never reorder)", out[order.ScopeAll], want)
	}
}

// An untagged account missing from an already-present untagged scope
// is appended, the same repair "all" gets. Imports hit this: merged
// accounts are indexed only through Normalize.
func TestNormalize_RepairsUntaggedMembership(t *testing.T) {
	accounts := []model.Account{
		acc("token-aaaa-0001"),
		acc("token-aaaa-0002"),
	}
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001", "token-aaaa-0002"},
		order.ScopeUntagged: {"token-aaaa-0001"},
	}

	out, changed := order.Normalize(in, accounts, nil)
	if !changed {
		t.Fatal("expected repair for missing untagged membership")
	}
	want := []string{"token-aaaa-0001", "token-aaaa-0002"}
	if !reflect.DeepEqual(out[order.ScopeUntagged], want) {
		t.Errorf("untagged scope = %v, want %v", out[order.ScopeUntagged], want)
	}
}

func TestNormalize_NoChangeReportsFalse(t *testing.T) {
	accounts := []model.Account{acc("token-aaaa-0001")}
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001"},
		order.ScopeUntagged: {"token-aaaa-0001"},
	}
	out, changed := order.Normalize(in, accounts, nil)
	if changed {
		t.Errorf("expected no change, got %v", out)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := order.Orders{order.ScopeAll: {"token-aaaa-0001"}}
	_, _ = order.Normalize(in, []model.Account{acc("token-aaaa-0002")}, nil)
	if len(in[order.ScopeAll]) != 1 {
		t.Errorf("input index was mutated: %v", in[order.ScopeAll])
	}
}

func TestAdd_Untagged(t *testing.T) {
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001"},
		order.ScopeUntagged: {"token-aaaa-0001"},
	}
	out := order.Add(in, acc("token-aaaa-0002"))

	if !reflect.DeepEqual(out[order.ScopeAll], []string{"token-aaaa-0001", "token-aaaa-0002"}) {
		t.Errorf("all scope = %v", out[order.ScopeAll])
	}
	if !reflect.DeepEqual(out[order.ScopeUntagged], []string{"token-aaaa-0001", "token-aaaa-0002"}) {
		t.Errorf("untagged scope = %v", out[order.ScopeUntagged])
	}
}

func TestAdd_Tagged(t *testing.T) {
	in := order.Orders{
		order.ScopeAll:      {},
		order.ScopeUntagged: {},
		"tag_1":             {},
	}
	out := order.Add(in, acc("token-aaaa-0002", "tag_1"))

	if !out.Contains("tag_1", "token-aaaa-0002") {
		t.Error("expected token in its tag scope")
	}
	if out.Contains(order.ScopeUntagged, "token-aaaa-0002") {
		t.Error("tagged account must not enter the untagged scope")
	}
}

func TestRetag_StrikeAndAppend(t *testing.T) {
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001", "token-aaaa-0002"},
		order.ScopeUntagged: {},
		"tag_1":             {"token-aaaa-0002", "token-aaaa-0001"},
		"tag_2":             {"token-aaaa-0002"},
	}
	// token-aaaa-0001: tag_1 → tag_2
	out := order.Retag(in, "token-aaaa-0001", []string{"tag_1"}, []string{"tag_2"})

	if out.Contains("tag_1", "token-aaaa-0001") {
		t.Error("token should be struck from the removed tag's scope")
	}
	if !reflect.DeepEqual(out["tag_2"], []string{"token-aaaa-0002", "token-aaaa-0001"}) {
		t.Errorf("tag_2 = %v, want append at the end", out["tag_2"])
	}
	// Unrelated scopes keep their order.
	if !reflect.DeepEqual(out[order.ScopeAll], in[order.ScopeAll]) {
		t.Errorf("all scope changed: %v", out[order.ScopeAll])
	}
}

func TestRetag_UntaggedTransitions(t *testing.T) {
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001"},
		order.ScopeUntagged: {"token-aaaa-0001"},
		"tag_1":             {},
	}

	// untagged → tagged
	out := order.Retag(in, "token-aaaa-0001", nil, []string{"tag_1"})
	if out.Contains(order.ScopeUntagged, "token-aaaa-0001") {
		t.Error("token should leave the untagged scope when it gains a tag")
	}

	// tagged → untagged
	back := order.Retag(out, "token-aaaa-0001", []string{"tag_1"}, nil)
	if !back.Contains(order.ScopeUntagged, "token-aaaa-0001") {
		t.Error("token should rejoin the untagged scope when it loses all tags")
	}
	if back.Contains("tag_1", "token-aaaa-0001") {
		t.Error("token should be struck from the lost tag's scope")
	}
}

func TestRetag_Idempotent(t *testing.T) {
	in := order.Orders{
		order.ScopeAll: {"token-aaaa-0001"},
		"tag_1":        {"token-aaaa-0001"},
	}
	// Re-adding an already present tag must not duplicate.
	out := order.Retag(in, "token-aaaa-0001", nil, []string{"tag_1"})
	if got := len(out["tag_1"]); got != 1 {
		t.Errorf("tag_1 has %d entries, want 1", got)
	}
}

func TestRemoveAccount_StrikesEveryScope(t *testing.T) {
	in := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001", "token-aaaa-0002"},
		order.ScopeUntagged: {"token-aaaa-0001"},
		"tag_1":             {"token-aaaa-0001", "token-aaaa-0002"},
	}
	out := order.RemoveAccount(in, "token-aaaa-0001")

	for scope := range out {
		if out.Contains(scope, "token-aaaa-0001") {
			t.Errorf("token still present in scope %q", scope)
		}
	}
	if !out.Contains("tag_1", "token-aaaa-0002") {
		t.Error("other tokens must survive")
	}
}

func TestRemoveScope(t *testing.T) {
	in := order.Orders{
		order.ScopeAll: {"token-aaaa-0001"},
		"tag_1":        {"token-aaaa-0001"},
	}
	out := order.RemoveScope(in, "tag_1")
	if _, ok := out["tag_1"]; ok {
		t.Error("scope should be deleted")
	}
	if _, ok := in["tag_1"]; !ok {
		t.Error("input must not be mutated")
	}
}

func TestReplace_Wholesale(t *testing.T) {
	in := order.Orders{
		order.ScopeAll: {"token-aaaa-0001", "token-aaaa-0002", "token-aaaa-0003"},
		"tag_1":        {"token-aaaa-0001"},
	}
	captured := []string{"token-aaaa-0003", "token-aaaa-0001", "token-aaaa-0002"}
	out := order.Replace(in, order.ScopeAll, captured)

	if !reflect.DeepEqual(out[order.ScopeAll], captured) {
		t.Errorf("all scope = %v, want %v", out[order.ScopeAll], captured)
	}
	// Other scopes untouched.
	if !reflect.DeepEqual(out["tag_1"], []string{"token-aaaa-0001"}) {
		t.Errorf("tag_1 = %v", out["tag_1"])
	}
}

// Reordering one tag scope leaves every other scope's order alone.
func TestReorderScopeIsolation(t *testing.T) {
	in := order.Orders{
		order.ScopeAll: {"token-aaaa-0001", "token-aaaa-0002"},
		"tag_1":        {"token-aaaa-0001", "token-aaaa-0002"},
	}
	out := order.Replace(in, "tag_1", []string{"token-aaaa-0002", "token-aaaa-0001"})

	if !reflect.DeepEqual(out[order.ScopeAll], []string{"token-aaaa-0001", "token-aaaa-0002"}) {
		t.Errorf("all scope changed: %v", out[order.ScopeAll])
	}
}
