package frontier

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/commentpilot/commentpilot/internal/platform"
	"github.com/commentpilot/commentpilot/internal/report"
	"github.com/commentpilot/commentpilot/internal/session"
)

// Google search result page. Kept in one place since these break when
// Google ships a redesign.
const (
	googleURL        = "https://www.google.com"
	googleQueryInput = `[name="q"]`
	googleNextPage   = `#pnnext`
	googleAnchor     = `a[href]`
	googleConsentSel = `button`
	googleConsentTxt = "Accept"
)

// Harvester sweeps search-engine result pages for candidate post links.
type Harvester struct {
	sess     *session.Session
	variant  platform.Variant
	reporter *report.Reporter
	log      *logrus.Entry
}

// NewHarvester creates a harvester over an open session.
func NewHarvester(sess *session.Session, v platform.Variant, reporter *report.Reporter, log *logrus.Entry) *Harvester {
	return &Harvester{sess: sess, variant: v, reporter: reporter, log: log}
}

// Harvest runs the platform's site-scoped query and sweeps up to pages
// result pages into f, stopping early when pagination cannot advance.
func (h *Harvester) Harvest(ctx context.Context, keyword string, pages int, f *Frontier) error {
	if err := h.sess.Navigate(googleURL); err != nil {
		return fmt.Errorf("failed to open search engine: %w", err)
	}
	h.sess.Sleep(3 * time.Second)

	// Consent wall shows up in some regions; absence is fine.
	if err := h.sess.ClickByText(googleConsentSel, googleConsentTxt); err == nil {
		h.sess.Sleep(1 * time.Second)
	}

	query := h.variant.SearchQuery(keyword)
	h.log.WithField("query", query).Info("Searching for candidate posts")

	if err := h.sess.Type(googleQueryInput, query); err != nil {
		return fmt.Errorf("failed to enter search query: %w", err)
	}
	if err := h.sess.Submit(googleQueryInput); err != nil {
		return fmt.Errorf("failed to submit search query: %w", err)
	}
	h.sess.Sleep(4 * time.Second)

	// A redirect away from the results page here means a captcha or
	// consent interstitial; log it so empty harvests are explainable.
	if loc, err := h.sess.Location(); err == nil {
		h.log.WithField("url", loc).Debug("Search results loaded")
	}

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.reporter.Progress(report.StatusSearching, page*30/max(pages, 1), 0, 0,
			fmt.Sprintf("Search page %d", page+1))

		hrefs, err := h.sess.Attrs(googleAnchor, "href")
		if err != nil {
			return fmt.Errorf("failed to read result links: %w", err)
		}
		added := 0
		for _, href := range hrefs {
			if h.variant.AcceptLink(Canonicalize(href)) && f.Add(href) {
				added++
			}
		}
		h.log.WithFields(logrus.Fields{"page": page + 1, "added": added, "total": f.Len()}).
			Debug("Swept result page")

		if err := h.sess.Click(googleNextPage); err != nil {
			break // last page of results
		}
		h.sess.Sleep(4 * time.Second)
	}

	h.reporter.Progress(report.StatusSearching, 30, 0, 0,
		fmt.Sprintf("Found %d candidate posts", f.Len()))
	return nil
}
