package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"

	"github.com/commentpilot/commentpilot/internal/config"
	"github.com/commentpilot/commentpilot/internal/job"
)

// CookieStore persists session cookies for one platform.
type CookieStore struct {
	path string
}

// StoredCookies represents the persisted cookie data
type StoredCookies struct {
	Cookies    []*network.Cookie `json:"cookies"`
	CapturedAt time.Time         `json:"captured_at"`
}

// NewCookieStore creates a cookie store at the given path
func NewCookieStore(path string) *CookieStore {
	return &CookieStore{path: path}
}

// CookieStorePath returns the cookie file path for a platform,
// e.g. cookies_instagram.json under the config directory.
func CookieStorePath(p job.Platform) (string, error) {
	configDir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("cookies_%s.json", strings.ToLower(string(p)))
	return filepath.Join(configDir, name), nil
}

// Save persists cookies to disk
// TODO: Encrypt cookies at rest
func (cs *CookieStore) Save(cookies []*network.Cookie) error {
	dir := filepath.Dir(cs.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	stored := StoredCookies{
		Cookies:    cookies,
		CapturedAt: time.Now(),
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(cs.path, data, 0600)
}

// Load retrieves cookies from disk
func (cs *CookieStore) Load() ([]*network.Cookie, error) {
	data, err := os.ReadFile(cs.path)
	if err != nil {
		return nil, err
	}

	var stored StoredCookies
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	return stored.Cookies, nil
}

// Exists reports whether a cookie file is present on disk.
func (cs *CookieStore) Exists() bool {
	_, err := os.Stat(cs.path)
	return err == nil
}

// Clear removes stored cookies
func (cs *CookieStore) Clear() error {
	return os.Remove(cs.path)
}
