package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/order"
	"github.com/tokswap/tokswap/internal/storage"
)

func TestJSONStorage_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tokswap.json")
	ctx := context.Background()

	s := storage.NewJSONStorage(path)
	err := s.Save(ctx, map[string]json.RawMessage{
		storage.KeyFilter: json.RawMessage(`"all"`),
		storage.KeyTheme:  json.RawMessage(`"dark"`),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("storage file was not created")
	}

	loaded, err := s.Load(ctx, []string{storage.KeyFilter, storage.KeyTheme, storage.KeyAccounts})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(loaded[storage.KeyFilter]) != `"all"` {
		t.Errorf("filter = %s", loaded[storage.KeyFilter])
	}
	if _, ok := loaded[storage.KeyAccounts]; ok {
		t.Error("missing key must be absent, not present")
	}
}

// A save only touches the given keys; other stored keys survive.
func TestJSONStorage_SaveMerges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokswap.json")
	ctx := context.Background()
	s := storage.NewJSONStorage(path)

	if err := s.Save(ctx, map[string]json.RawMessage{
		storage.KeyFilter: json.RawMessage(`"all"`),
		storage.KeyTheme:  json.RawMessage(`"dark"`),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, map[string]json.RawMessage{
		storage.KeyFilter: json.RawMessage(`"untagged"`),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(ctx, []string{storage.KeyFilter, storage.KeyTheme})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(loaded[storage.KeyFilter]) != `"untagged"` {
		t.Errorf("filter = %s", loaded[storage.KeyFilter])
	}
	if string(loaded[storage.KeyTheme]) != `"dark"` {
		t.Errorf("theme was lost: %s", loaded[storage.KeyTheme])
	}
}

func TestJSONStorage_MissingFileLoadsEmpty(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "nope.json"))
	loaded, err := s.Load(context.Background(), []string{storage.KeyAccounts})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded = %v, want empty", loaded)
	}
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokswap.db")
	ctx := context.Background()

	s, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Save(ctx, map[string]json.RawMessage{
		storage.KeyAccounts: json.RawMessage(`[{"token":"token-aaaa-0001","email":"a@example.com"}]`),
		storage.KeyFilter:   json.RawMessage(`"all"`),
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(ctx, []string{storage.KeyAccounts, storage.KeyFilter, storage.KeyTheme})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var accounts []model.Account
	if err := json.Unmarshal(loaded[storage.KeyAccounts], &accounts); err != nil {
		t.Fatalf("decode accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Token != "token-aaaa-0001" {
		t.Errorf("accounts = %+v", accounts)
	}
	if _, ok := loaded[storage.KeyTheme]; ok {
		t.Error("missing key must be absent")
	}
}

func TestSQLiteStorage_Upsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokswap.db")
	ctx := context.Background()

	s, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	for _, v := range []string{`"dark"`, `"light"`} {
		if err := s.Save(ctx, map[string]json.RawMessage{
			storage.KeyTheme: json.RawMessage(v),
		}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	loaded, err := s.Load(ctx, []string{storage.KeyTheme})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(loaded[storage.KeyTheme]) != `"light"` {
		t.Errorf("theme = %s, want last write", loaded[storage.KeyTheme])
	}
}

func TestLoadSnapshot_Defaults(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "tokswap.json"))
	snap, err := storage.LoadSnapshot(context.Background(), s)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Accounts == nil || snap.Tags == nil || snap.Orders == nil {
		t.Error("empty snapshot must come back with non-nil collections")
	}
	if snap.FilterTagID != "" || snap.Theme != "" {
		t.Errorf("scalars = %q/%q, want empty", snap.FilterTagID, snap.Theme)
	}
}

func TestSaveValuesAndLoadSnapshot_RoundTrip(t *testing.T) {
	s := storage.NewJSONStorage(filepath.Join(t.TempDir(), "tokswap.json"))
	ctx := context.Background()

	accounts := []model.Account{{Token: "token-aaaa-0001", Email: "a@example.com", TagIDs: []string{"tag_1"}}}
	tags := []model.Tag{{ID: "tag_1", Name: "work", Color: "#10b981"}}
	orders := order.Orders{
		order.ScopeAll:      {"token-aaaa-0001"},
		order.ScopeUntagged: {},
		"tag_1":             {"token-aaaa-0001"},
	}

	err := storage.SaveValues(ctx, s, map[string]any{
		storage.KeyAccounts: accounts,
		storage.KeyTags:     tags,
		storage.KeyOrders:   orders,
		storage.KeyFilter:   "tag_1",
		storage.KeyTheme:    "light",
	})
	if err != nil {
		t.Fatalf("SaveValues: %v", err)
	}

	snap, err := storage.LoadSnapshot(ctx, s)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Accounts) != 1 || snap.Accounts[0].Email != "a@example.com" {
		t.Errorf("accounts = %+v", snap.Accounts)
	}
	if len(snap.Tags) != 1 || snap.Tags[0].Name != "work" {
		t.Errorf("tags = %+v", snap.Tags)
	}
	if len(snap.Orders["tag_1"]) != 1 {
		t.Errorf("orders = %+v", snap.Orders)
	}
	if snap.FilterTagID != "tag_1" || snap.Theme != "light" {
		t.Errorf("scalars = %q/%q", snap.FilterTagID, snap.Theme)
	}
}

func TestLoadSnapshot_CorruptValueIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokswap.json")
	if err := os.WriteFile(path, []byte(`{"accounts": "not-an-array"}`), 0644); err != nil {
		t.Fatal(err)
	}
	s := storage.NewJSONStorage(path)
	if _, err := storage.LoadSnapshot(context.Background(), s); err == nil {
		t.Fatal("expected error for corrupt accounts value")
	}
}
