package session

import "github.com/chromedp/chromedp"

// DefaultUserAgent is a realistic Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// AllocatorOptions returns chromedp exec allocator options with
// anti-bot-detection measures. Every browser instance goes through this
// so the stealth configuration stays consistent.
func AllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),

		// Prevent navigator.webdriver = true detection; the platforms
		// check this before anything else.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		chromedp.UserAgent(DefaultUserAgent),
		chromedp.WindowSize(1920, 1080),

		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
	)

	if opts.ProfileDir != "" {
		// Persistent profile keeps platform logins across runs.
		out = append(out, chromedp.UserDataDir(opts.ProfileDir))
	}
	if opts.Headless {
		out = append(out, chromedp.Flag("disable-gpu", true))
	}

	return out
}
