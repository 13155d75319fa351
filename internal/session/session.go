// Package session holds the single active credential: the session
// cookie the service reads. The core treats it as an opaque one-slot
// register.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// CookieName is the session cookie rewritten on every switch.
const CookieName = "session_token"

// TTL is the expiration requested when setting the cookie.
const TTL = 80 * 24 * time.Hour

// Session is the active-credential register.
type Session interface {
	// Active returns the current token, or "" when logged out.
	Active(ctx context.Context) (string, error)
	// SetActive replaces the cookie with the given token and
	// requests a future expiration.
	SetActive(ctx context.Context, token string) error
	// Clear removes the cookie (logout).
	Clear(ctx context.Context) error
}

type cookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Secure  bool      `json:"secure"`
	Expires time.Time `json:"expires"`
}

// CookieFile implements Session over a cookie file on disk.
type CookieFile struct {
	path string
	now  func() time.Time
}

// NewCookieFile creates a CookieFile at the given path.
func NewCookieFile(path string) *CookieFile {
	return &CookieFile{path: path, now: time.Now}
}

// DefaultPath returns the default cookie path: ~/.config/tokswap/session.json
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tokswap", "session.json"), nil
}

// Active reads the cookie value. Missing or expired cookies read as
// logged out, not as an error.
func (c *CookieFile) Active(_ context.Context) (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	var ck cookie
	if err := json.Unmarshal(data, &ck); err != nil {
		return "", err
	}
	if ck.Name != CookieName || c.now().After(ck.Expires) {
		return "", nil
	}
	return ck.Value, nil
}

// SetActive writes the cookie with an expiration TTL from now.
func (c *CookieFile) SetActive(_ context.Context, token string) error {
	ck := cookie{
		Name:    CookieName,
		Value:   token,
		Secure:  true,
		Expires: c.now().Add(TTL),
	}
	data, err := json.MarshalIndent(ck, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

// Clear removes the cookie file.
func (c *CookieFile) Clear(_ context.Context) error {
	err := os.Remove(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
