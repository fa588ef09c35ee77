// Package collect drives comment harvesting for one post at a time:
// reveal the thread, scroll and expand until content stabilizes, then
// hand the raw text to the tokenizer/normalizer.
package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/commentpilot/commentpilot/internal/extract"
	"github.com/commentpilot/commentpilot/internal/platform"
	"github.com/commentpilot/commentpilot/internal/session"
	"github.com/commentpilot/commentpilot/internal/types"
)

// stableRounds is how many consecutive no-change scrolls mean the thread
// is fully loaded.
const stableRounds = 5

// Collector harvests comments from posts through an open session.
type Collector struct {
	sess    *session.Session
	variant platform.Variant
	log     *logrus.Entry
}

// New creates a collector for one platform variant.
func New(sess *session.Session, v platform.Variant, log *logrus.Entry) *Collector {
	return &Collector{sess: sess, variant: v, log: log}
}

// Collect extracts the comment thread of one post. failed counts the
// containers that could not be parsed; they never abort the batch.
func (c *Collector) Collect(ctx context.Context, postURL string) (comments []types.Comment, failed int, err error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if err := c.sess.Navigate(postURL); err != nil {
		return nil, 0, err
	}
	c.sess.Sleep(5 * time.Second)

	switch c.variant.Mode {
	case platform.FragmentStream:
		comments, err = c.collectFragments(postURL)
	case platform.Containers:
		comments, failed, err = c.collectContainers(postURL)
	default:
		err = fmt.Errorf("unknown harvest mode %d", c.variant.Mode)
	}
	if err != nil {
		return nil, failed, err
	}

	c.log.WithFields(logrus.Fields{
		"post":     postURL,
		"comments": len(comments),
		"failed":   failed,
	}).Info("Extracted comments")
	return comments, failed, nil
}

// collectFragments scrolls the thread panel until its scroll position
// stops moving, then scans the visible text fragments.
func (c *Collector) collectFragments(postURL string) ([]types.Comment, error) {
	sel := c.variant.Selectors
	lastTop := -1.0
	stable := 0
	for round := 0; round < c.variant.ScrollRounds; round++ {
		top, err := c.sess.ScrollPanel(sel.CommentPanel)
		if err != nil {
			return nil, err
		}
		c.sess.Sleep(1800 * time.Millisecond)
		if top == lastTop {
			stable++
			if stable >= stableRounds {
				break
			}
		} else {
			stable = 0
		}
		lastTop = top
	}

	frags, err := c.sess.Texts(sel.Fragment)
	if err != nil {
		return nil, err
	}
	return extract.ScanFragments(c.variant.Rules, postURL, frags), nil
}

// collectContainers expands and scrolls until the container count stops
// growing, then scans each container independently.
func (c *Collector) collectContainers(postURL string) ([]types.Comment, int, error) {
	sel := c.variant.Selectors

	if sel.OpenThread != "" {
		if err := c.sess.Click(sel.OpenThread); err == nil {
			c.sess.Sleep(3 * time.Second)
		}
	}

	lastCount := -1
	for round := 0; round < c.variant.ScrollRounds; round++ {
		if n, err := c.expand(); err == nil && n > 0 {
			c.sess.Sleep(800 * time.Millisecond)
		}
		if sel.CommentPanel != "" {
			if _, err := c.sess.ScrollPanel(sel.CommentPanel); err != nil {
				_ = c.sess.ScrollBy(800)
			}
		} else {
			_ = c.sess.ScrollBy(900)
		}
		c.sess.Sleep(1500 * time.Millisecond)

		count, err := c.sess.Count(sel.Container)
		if err != nil {
			return nil, 0, err
		}
		if count == lastCount {
			break
		}
		lastCount = count
	}

	raw, err := c.scanContainers()
	if err != nil {
		return nil, 0, err
	}
	comments, failed := extract.FromContainers(c.variant.Rules, postURL, raw)
	return comments, failed, nil
}

// expand clicks the variant's "load more" affordances: by label when the
// platform exposes no stable selector, by selector alone otherwise.
func (c *Collector) expand() (int, error) {
	sel := c.variant.Selectors
	if sel.ExpandSel == "" {
		return 0, nil
	}
	if sel.ExpandText != "" {
		return c.sess.ClickAllByText(sel.ExpandSel, sel.ExpandText)
	}
	return c.sess.ClickAll(sel.ExpandSel)
}

// scanContainers pulls (author, body, time) out of every container in one
// page-side pass. A container that throws is reported with its error and
// skipped by the normalizer, never aborting the batch.
func (c *Collector) scanContainers() ([]extract.RawContainer, error) {
	sel := c.variant.Selectors
	js := fmt.Sprintf(`
		(function() {
			const out = [];
			document.querySelectorAll(%q).forEach((el, index) => {
				try {
					const authorEl = %q ? el.querySelector(%q) : null;
					const author = authorEl ? authorEl.innerText.trim() : '';
					let body = '';
					if (%q) {
						el.querySelectorAll(%q).forEach(s => {
							const t = (s.innerText || '').trim();
							if (t) body += t + '\n';
						});
					} else {
						body = el.innerText || '';
					}
					let timeRaw = '';
					const timeEl = %q ? el.querySelector(%q) : null;
					if (timeEl) {
						timeRaw = timeEl.getAttribute('aria-label')
							|| timeEl.getAttribute('datetime')
							|| timeEl.innerText
							|| '';
					}
					out.push({index, author, body, timeRaw: timeRaw.trim()});
				} catch (e) {
					out.push({index, author: '', body: '', timeRaw: '', err: String(e)});
				}
			});
			return out;
		})()`,
		sel.Container,
		sel.Author, sel.Author,
		sel.Body, sel.Body,
		sel.Time, sel.Time,
	)

	var raw []extract.RawContainer
	if err := c.sess.Eval(js, &raw); err != nil {
		return nil, fmt.Errorf("failed to scan containers: %w", err)
	}
	return raw, nil
}
