// Package session owns the resident browser process behind a single
// explicit resource handle. The rest of the pipeline consumes only the
// abstract capabilities exposed here: navigate, read visible text
// fragments matching a locator, and perform UI actions. Close must run on
// every exit path or the browser process leaks.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Options configures a browser session.
type Options struct {
	Headless   bool
	ProfileDir string
	// Timeout bounds the whole session; zero means 30 minutes.
	Timeout time.Duration
}

// Session is an explicitly owned handle on one browser instance.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// New starts a browser and returns its session handle. The caller owns
// the handle and must call Close.
func New(ctx context.Context, opts Options) (*Session, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Minute
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, AllocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, timeout)

	s := &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{timeoutCancel, browserCancel, allocCancel},
	}

	// Start the browser eagerly so a missing Chrome binary surfaces here
	// rather than mid-run.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return s, nil
}

// Close releases the browser process. Safe to call more than once.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Navigate loads a URL and waits for the document to be ready.
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Location returns the current page URL.
func (s *Session) Location() (string, error) {
	var url string
	err := chromedp.Run(s.ctx, chromedp.Location(&url))
	return url, err
}

// Texts returns the visible text of every element matching the CSS
// selector, in document order, with empty entries dropped.
func (s *Session) Texts(sel string) ([]string, error) {
	var out []string
	js := fmt.Sprintf(`
		(function() {
			const out = [];
			document.querySelectorAll(%q).forEach(el => {
				const t = (el.innerText || '').trim();
				if (t) out.push(t);
			});
			return out;
		})()`, sel)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &out)); err != nil {
		return nil, fmt.Errorf("failed to read fragments for %q: %w", sel, err)
	}
	return out, nil
}

// Attrs returns an attribute value for every element matching the CSS
// selector, skipping elements without it.
func (s *Session) Attrs(sel, attr string) ([]string, error) {
	var out []string
	js := fmt.Sprintf(`
		(function() {
			const out = [];
			document.querySelectorAll(%q).forEach(el => {
				const v = el.getAttribute(%q);
				if (v) out.push(v);
			});
			return out;
		})()`, sel, attr)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &out)); err != nil {
		return nil, fmt.Errorf("failed to read %s attributes for %q: %w", attr, sel, err)
	}
	return out, nil
}

// Click dispatches a script click on the first element matching the
// selector. Script clicks sidestep overlay and visibility issues that
// break synthesized mouse events on these sites.
func (s *Session) Click(sel string) error {
	var ok bool
	js := fmt.Sprintf(`
		(function() {
			const el = document.querySelector(%q);
			if (!el) return false;
			el.scrollIntoView({block: 'center'});
			el.click();
			return true;
		})()`, sel)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("failed to click %q: %w", sel, err)
	}
	if !ok {
		return fmt.Errorf("no element matches %q", sel)
	}
	return nil
}

// ClickAll clicks every element currently matching the selector and
// returns how many were clicked. Used for "load more" affordances.
func (s *Session) ClickAll(sel string) (int, error) {
	var n int
	js := fmt.Sprintf(`
		(function() {
			let n = 0;
			document.querySelectorAll(%q).forEach(el => { el.click(); n++; });
			return n;
		})()`, sel)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("failed to click %q: %w", sel, err)
	}
	return n, nil
}

// Type focuses the first element matching the selector and sends the text
// as real key events.
func (s *Session) Type(sel, text string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.WaitVisible(sel, chromedp.ByQuery),
		chromedp.Focus(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to type into %q: %w", sel, err)
	}
	return nil
}

// Submit sends Enter to the element matching the selector.
func (s *Session) Submit(sel string) error {
	if err := chromedp.Run(s.ctx,
		chromedp.SendKeys(sel, kb.Enter, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to submit %q: %w", sel, err)
	}
	return nil
}

// ScrollBy scrolls the window vertically by px.
func (s *Session) ScrollBy(px int) error {
	js := fmt.Sprintf(`window.scrollBy(0, %d)`, px)
	return chromedp.Run(s.ctx, chromedp.Evaluate(js, nil))
}

// ScrollToBottom scrolls the window to the bottom of the document.
func (s *Session) ScrollToBottom() error {
	return chromedp.Run(s.ctx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

// ScrollPanel scrolls an overflow container to its bottom and returns the
// resulting scrollTop, so callers can detect when content has stabilized.
func (s *Session) ScrollPanel(sel string) (float64, error) {
	var top float64
	js := fmt.Sprintf(`
		(function() {
			const el = document.querySelector(%q);
			if (!el) return -1;
			el.scrollTop = el.scrollHeight;
			return el.scrollTop;
		})()`, sel)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &top)); err != nil {
		return -1, fmt.Errorf("failed to scroll panel %q: %w", sel, err)
	}
	return top, nil
}

// Count returns the number of elements matching the selector.
func (s *Session) Count(sel string) (int, error) {
	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, err
	}
	return n, nil
}

// Eval evaluates arbitrary JavaScript, unmarshaling the result into out.
func (s *Session) Eval(js string, out any) error {
	return chromedp.Run(s.ctx, chromedp.Evaluate(js, out))
}

// SetCookies injects stored cookies into the browser before navigation.
func (s *Session) SetCookies(cookies []*network.Cookie) error {
	return chromedp.Run(s.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for _, c := range cookies {
				err := network.SetCookie(c.Name, c.Value).
					WithDomain(c.Domain).
					WithPath(c.Path).
					WithSecure(c.Secure).
					WithHTTPOnly(c.HTTPOnly).
					WithSameSite(c.SameSite).
					Do(ctx)
				if err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

// Sleep blocks for d or until the session context ends. All waits in the
// pipeline go through this so process interruption is honored promptly.
func (s *Session) Sleep(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-s.ctx.Done():
	}
}

// ClickByText clicks the first element matching the selector whose
// visible text contains text.
func (s *Session) ClickByText(sel, text string) error {
	var ok bool
	js := fmt.Sprintf(`
		(function() {
			const els = [...document.querySelectorAll(%q)];
			const el = els.find(e => (e.innerText || '').includes(%q));
			if (!el) return false;
			el.scrollIntoView({block: 'center'});
			el.click();
			return true;
		})()`, sel, text)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("failed to click %q by text %q: %w", sel, text, err)
	}
	if !ok {
		return fmt.Errorf("no element matching %q contains %q", sel, text)
	}
	return nil
}

// ClickAllByText clicks every element matching the selector whose visible
// text contains text, returning the click count.
func (s *Session) ClickAllByText(sel, text string) (int, error) {
	var n int
	js := fmt.Sprintf(`
		(function() {
			let n = 0;
			document.querySelectorAll(%q).forEach(el => {
				if ((el.innerText || '').includes(%q)) { el.click(); n++; }
			});
			return n;
		})()`, sel, text)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("failed to click %q by text %q: %w", sel, text, err)
	}
	return n, nil
}

// markAttr tags the container a reply targets so follow-up actions can
// scope their selectors to it.
const markAttr = "data-cp-mark"

// MarkContainer tags the container at index, falling back to the first
// container whose text contains author when the index is stale (the DOM
// may have reordered since extraction). Any previous mark is cleared.
func (s *Session) MarkContainer(containerSel string, index int, author string) error {
	var ok bool
	js := fmt.Sprintf(`
		(function() {
			const els = [...document.querySelectorAll(%q)];
			els.forEach(e => e.removeAttribute(%q));
			let el = els[%d];
			if ((!el || (%q && !(el.innerText || '').includes(%q))) && %q) {
				el = els.find(e => (e.innerText || '').includes(%q)) || null;
			}
			if (!el) return false;
			el.scrollIntoView({block: 'center'});
			el.setAttribute(%q, '');
			return true;
		})()`, containerSel, markAttr, index, author, author, author, author, markAttr)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("failed to mark container: %w", err)
	}
	if !ok {
		return fmt.Errorf("no container at index %d or containing %q", index, author)
	}
	return nil
}

// InMarked scopes a selector to the currently marked container.
func InMarked(sel string) string {
	return "[" + markAttr + "] " + sel
}

// SubmitCtrlEnter sends Ctrl+Enter to the focused element, the submit
// shortcut some comment editors require.
func (s *Session) SubmitCtrlEnter() error {
	return chromedp.Run(s.ctx,
		chromedp.KeyEvent(kb.Enter, chromedp.KeyModifiers(input.ModifierCtrl)),
	)
}
