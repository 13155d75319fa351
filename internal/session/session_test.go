package session_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tokswap/tokswap/internal/session"
)

func TestCookieFile_SetAndActive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()
	c := session.NewCookieFile(path)

	if err := c.SetActive(ctx, "token-aaaa-0001"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	got, err := c.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got != "token-aaaa-0001" {
		t.Errorf("Active = %q", got)
	}
}

func TestCookieFile_SwitchOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()
	c := session.NewCookieFile(path)

	if err := c.SetActive(ctx, "token-aaaa-0001"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetActive(ctx, "token-bbbb-0002"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Active(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "token-bbbb-0002" {
		t.Errorf("Active = %q, want the later token", got)
	}
}

func TestCookieFile_MissingReadsLoggedOut(t *testing.T) {
	c := session.NewCookieFile(filepath.Join(t.TempDir(), "nope.json"))
	got, err := c.Active(context.Background())
	if err != nil {
		t.Fatalf("missing cookie must not error: %v", err)
	}
	if got != "" {
		t.Errorf("Active = %q, want empty", got)
	}
}

func TestCookieFile_ExpiredReadsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	expired := map[string]any{
		"name":    session.CookieName,
		"value":   "token-aaaa-0001",
		"secure":  true,
		"expires": time.Now().Add(-time.Hour).Format(time.RFC3339),
	}
	data, err := json.Marshal(expired)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	c := session.NewCookieFile(path)
	got, err := c.Active(context.Background())
	if err != nil {
		t.Fatalf("expired cookie must not error: %v", err)
	}
	if got != "" {
		t.Errorf("Active = %q, want empty for expired cookie", got)
	}
}

func TestCookieFile_SetRequestsFutureExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()
	c := session.NewCookieFile(path)

	before := time.Now()
	if err := c.SetActive(ctx, "token-aaaa-0001"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var ck struct {
		Name    string    `json:"name"`
		Secure  bool      `json:"secure"`
		Expires time.Time `json:"expires"`
	}
	if err := json.Unmarshal(data, &ck); err != nil {
		t.Fatal(err)
	}
	if ck.Name != session.CookieName {
		t.Errorf("name = %q", ck.Name)
	}
	if !ck.Secure {
		t.Error("cookie must be secure")
	}
	if got := ck.Expires.Sub(before); got < session.TTL-time.Minute {
		t.Errorf("expiry %v from now, want about %v", got, session.TTL)
	}
}

func TestCookieFile_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()
	c := session.NewCookieFile(path)

	if err := c.SetActive(ctx, "token-aaaa-0001"); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := c.Active(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Active after clear = %q", got)
	}

	// Clearing again is not an error.
	if err := c.Clear(ctx); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
