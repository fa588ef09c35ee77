package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/commentpilot/commentpilot/internal/job"
	"github.com/commentpilot/commentpilot/internal/session"
	"github.com/commentpilot/commentpilot/internal/types"
)

// Poster dispatches one reply through the platform's UI action sequence.
// Any failure is returned to the scheduler as a failed attempt; nothing
// here terminates the run.
type Poster struct {
	sess    *session.Session
	variant Variant
	log     *logrus.Entry
}

// NewPoster creates a poster over an open session.
func NewPoster(sess *session.Session, v Variant, log *logrus.Entry) *Poster {
	return &Poster{sess: sess, variant: v, log: log}
}

// Post navigates to the comment's source post, re-locates the comment's
// container where the platform needs one, and runs the reply sequence.
func (p *Poster) Post(ctx context.Context, c types.Comment, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.sess.Navigate(c.PostURL); err != nil {
		return err
	}
	p.sess.Sleep(5 * time.Second)

	if p.variant.MentionAuthor {
		text = fmt.Sprintf("@%s %s", c.Author, text)
	}

	switch p.variant.Platform {
	case job.Instagram:
		return p.postInstagram(text)
	case job.Facebook:
		return p.postFacebook(text)
	case job.LinkedIn:
		return p.postLinkedIn(c, text)
	case job.Reddit:
		return p.postReddit(c, text)
	case job.Twitter:
		return p.postTwitter(c, text)
	default:
		return fmt.Errorf("no reply sequence for platform %q", p.variant.Platform)
	}
}

// prepare wakes the thread UI: open the comment affordance if the
// platform hides it, expand, and nudge the scroll position.
func (p *Poster) prepare() {
	sel := p.variant.Selectors
	if sel.OpenThread != "" {
		if err := p.sess.Click(sel.OpenThread); err == nil {
			p.sess.Sleep(2 * time.Second)
		}
	}
	if sel.ExpandSel != "" {
		if sel.ExpandText != "" {
			_, _ = p.sess.ClickAllByText(sel.ExpandSel, sel.ExpandText)
		} else {
			_, _ = p.sess.ClickAll(sel.ExpandSel)
		}
	}
	_ = p.sess.ScrollBy(400)
	p.sess.Sleep(time.Second)
}

// mark re-locates the comment's container: by extraction index first,
// falling back to an author text match when the DOM has shifted.
func (p *Poster) mark(c types.Comment) error {
	return p.sess.MarkContainer(p.variant.Selectors.Container, c.ContainerIndex, c.Author)
}

func (p *Poster) postInstagram(text string) error {
	sel := p.variant.Selectors
	_ = p.sess.ScrollBy(500)
	p.sess.Sleep(time.Second)

	if err := p.sess.Click(sel.Editor); err != nil {
		return err
	}
	if err := p.sess.Type(sel.Editor, text); err != nil {
		return err
	}
	p.sess.Sleep(800 * time.Millisecond)
	if err := p.sess.ClickByText(sel.Submit, sel.SubmitText); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)
	return nil
}

func (p *Poster) postFacebook(text string) error {
	sel := p.variant.Selectors
	p.prepare()

	if err := p.sess.ClickByText(sel.ReplyButton, sel.ReplyButtonText); err != nil {
		return err
	}
	p.sess.Sleep(time.Second)
	if err := p.sess.Type(sel.Editor, text); err != nil {
		return err
	}
	if err := p.sess.Submit(sel.Editor); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)
	return nil
}

func (p *Poster) postLinkedIn(c types.Comment, text string) error {
	sel := p.variant.Selectors
	p.prepare()

	if err := p.mark(c); err != nil {
		return err
	}
	if err := p.sess.Click(session.InMarked(sel.ReplyButton)); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)

	editor := session.InMarked(sel.Editor)
	if err := p.sess.Type(editor, text); err != nil {
		return err
	}
	if err := p.sess.Click(session.InMarked(sel.Submit)); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)
	return nil
}

func (p *Poster) postReddit(c types.Comment, text string) error {
	sel := p.variant.Selectors
	_ = p.sess.ScrollToBottom()
	p.sess.Sleep(2 * time.Second)

	if err := p.mark(c); err != nil {
		return err
	}
	if err := p.sess.ClickByText(session.InMarked(sel.ReplyButton), sel.ReplyButtonText); err != nil {
		return err
	}
	p.sess.Sleep(3 * time.Second)

	if err := p.sess.Type(sel.Editor, text); err != nil {
		return err
	}
	p.sess.Sleep(time.Second)
	// New Reddit's editor submits on Ctrl+Enter.
	if err := p.sess.SubmitCtrlEnter(); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)
	return nil
}

func (p *Poster) postTwitter(c types.Comment, text string) error {
	sel := p.variant.Selectors

	if err := p.mark(c); err != nil {
		return err
	}
	if err := p.sess.Click(session.InMarked(sel.ReplyButton)); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)

	if err := p.sess.Type(sel.Editor, text); err != nil {
		return err
	}
	if err := p.sess.Click(sel.Submit); err != nil {
		return err
	}
	p.sess.Sleep(2 * time.Second)
	return nil
}
