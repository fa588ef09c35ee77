package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/commentpilot/commentpilot/internal/platform"
)

// Manager handles interactive platform login and cookie capture.
type Manager struct {
	variant     platform.Variant
	cookieStore *CookieStore
	profileDir  string
}

// NewManager creates an auth manager for one platform variant. profileDir
// may be empty, in which case a throwaway browser profile is used.
func NewManager(variant platform.Variant, cookieStore *CookieStore, profileDir string) *Manager {
	return &Manager{variant: variant, cookieStore: cookieStore, profileDir: profileDir}
}

// IsAuthenticated checks if we have stored credentials
func (m *Manager) IsAuthenticated() bool {
	return m.cookieStore.Exists()
}

// Login opens a visible browser window for the user to log in, then
// captures the session cookies once the platform lands on its
// logged-in page.
func (m *Manager) Login(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("start-maximized", true),
		// Prevent `navigator.webdriver = true`, which seems enough to trick
		// most platforms into believing we're not using automation.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if m.profileDir != "" {
		opts = append(opts, chromedp.UserDataDir(m.profileDir))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(m.variant.LoginURL),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to login page: %w", err)
	}

	if err := m.waitForLogin(browserCtx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cookies, err := m.extractCookies(browserCtx)
	if err != nil {
		return fmt.Errorf("failed to extract cookies: %w", err)
	}

	if err := m.cookieStore.Save(cookies); err != nil {
		return fmt.Errorf("failed to save cookies: %w", err)
	}

	return nil
}

// waitForLogin polls until the user has successfully logged in
func (m *Manager) waitForLogin(ctx context.Context) error {
	timeout := time.After(5 * time.Minute) // Give user 5 minutes to log in
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			return fmt.Errorf("login timeout exceeded")
		case <-ticker.C:
			var url string
			err := chromedp.Run(ctx,
				chromedp.Location(&url),
			)
			if err != nil {
				continue
			}

			if m.variant.LoginDone(url) {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// extractCookies gets all cookies from the browser
func (m *Manager) extractCookies(ctx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie

	err := chromedp.Run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
	)

	return cookies, err
}

// Logout clears stored credentials
func (m *Manager) Logout() error {
	return m.cookieStore.Clear()
}

// GetCookies returns the stored cookies for use during a run.
func (m *Manager) GetCookies() ([]*network.Cookie, error) {
	return m.cookieStore.Load()
}
