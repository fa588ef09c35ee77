// Package platform defines the per-site variant table: one generic
// pipeline runs against a small capability set of search query, link
// filter, tokenizer rules, selectors, and reply pacing, rather than five
// near-identical copies of the control flow.
package platform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/commentpilot/commentpilot/internal/extract"
	"github.com/commentpilot/commentpilot/internal/job"
)

// Mode selects how a variant's comment threads are harvested.
type Mode int

const (
	// FragmentStream platforms expose comments only as a flat stream of
	// text fragments; a state machine reassembles records.
	FragmentStream Mode = iota
	// Containers platforms wrap each comment in its own DOM container.
	Containers
)

// Variant bundles everything platform-specific the engine needs.
//
// ReplyDelay is a rate-limit safety margin against automated-abuse
// detection, not a performance knob. It is deliberately long, fixed per
// platform, and not exposed to callers.
type Variant struct {
	Platform  job.Platform
	Mode      Mode
	Selectors Selectors
	Rules     extract.Rules

	// SearchQuery builds the site-scoped search-engine query.
	SearchQuery func(keyword string) string
	// AcceptLink reports whether a harvested href is a candidate post.
	AcceptLink func(href string) bool

	// MaxPosts caps how many candidate posts one run visits.
	MaxPosts int
	// ScrollRounds bounds the scroll-until-stable loop.
	ScrollRounds int

	// ReplyDelay is the minimum pause after a successful reply;
	// RecoveryDelay the shorter pause after a failed one.
	ReplyDelay    time.Duration
	RecoveryDelay time.Duration

	// MentionAuthor prefixes "@author " to posted replies.
	MentionAuthor bool

	// Fallback is the static reply used when generation fails.
	Fallback func(author string) string
	// Prompt builds the generation prompt for (author, comment).
	Prompt func(author, comment string) string

	// LoginURL and LoginDone drive the interactive login helper.
	LoginURL  string
	LoginDone func(currentURL string) bool
}

var (
	igHandleRE = regexp.MustCompile(`^[A-Za-z0-9._]+$`)
	relTokenRE = regexp.MustCompile(`^(?i)\d+\s*[mhdwy]$`)
)

var variants = map[job.Platform]Variant{
	job.Instagram: {
		Platform:  job.Instagram,
		Mode:      FragmentStream,
		Selectors: instagramSelectors,
		Rules: extract.Rules{
			Username:  igHandleRE,
			Timestamp: relTokenRE,
			ExtraNoise: []string{
				"locations", "threads", "instagram lite", "meta ai", "meta verified",
				"about", "blog", "jobs", "help", "api", "privacy", "terms",
				"contact uploading and non-users",
			},
			FallbackName: "Unknown",
		},
		SearchQuery: func(kw string) string { return fmt.Sprintf("site:instagram.com/p %s", kw) },
		AcceptLink: func(href string) bool {
			return strings.Contains(href, "instagram.com/p/") && !strings.Contains(href, "/reel/")
		},
		MaxPosts:      3,
		ScrollRounds:  80,
		ReplyDelay:    40 * time.Second,
		RecoveryDelay: 10 * time.Second,
		MentionAuthor: true,
		Fallback:      func(author string) string { return fmt.Sprintf("Thank you for your comment, %s!", author) },
		Prompt: func(author, comment string) string {
			return fmt.Sprintf("Write a natural, polite Instagram reply to this comment.\n\nUser: %s\nComment: %s\n\nOne short sentence. No emojis. No links.", author, comment)
		},
		LoginURL:  "https://www.instagram.com/accounts/login/",
		LoginDone: func(u string) bool { return u == "https://www.instagram.com/" },
	},
	job.Facebook: {
		Platform:  job.Facebook,
		Mode:      Containers,
		Selectors: facebookSelectors,
		Rules: extract.Rules{
			Username:     igHandleRE,
			Timestamp:    relTokenRE,
			ExtraNoise:   []string{"see more", "view more", "most relevant", "top comments"},
			FallbackName: "Anonymous",
		},
		SearchQuery: func(kw string) string { return fmt.Sprintf("site:facebook.com %q", kw) },
		AcceptLink: func(href string) bool {
			u := strings.ToLower(href)
			if !strings.Contains(u, "facebook.com") {
				return false
			}
			if strings.Contains(u, "/video") || strings.Contains(u, "/watch") {
				return false
			}
			for _, marker := range []string{"/posts/", "/groups/", "permalink.php", "/reel/", "/reels/"} {
				if strings.Contains(u, marker) {
					return true
				}
			}
			return false
		},
		MaxPosts:      10,
		ScrollRounds:  15,
		ReplyDelay:    30 * time.Second,
		RecoveryDelay: 5 * time.Second,
		Fallback:      func(author string) string { return fmt.Sprintf("Thanks for sharing your thoughts, %s!", author) },
		Prompt: func(author, comment string) string {
			return fmt.Sprintf("Reply casually and friendly to this Facebook comment.\n\nUser: %s\nComment: %s\n\nOne short sentence. Human. Not spammy.", author, comment)
		},
		LoginURL:  "https://www.facebook.com/login",
		LoginDone: func(u string) bool { return u == "https://www.facebook.com/" },
	},
	job.LinkedIn: {
		Platform:  job.LinkedIn,
		Mode:      Containers,
		Selectors: linkedinSelectors,
		Rules: extract.Rules{
			Username:     igHandleRE,
			Timestamp:    relTokenRE,
			ExtraNoise:   []string{"see previous replies", "load more comments"},
			FallbackName: "Unknown",
		},
		SearchQuery: func(kw string) string { return fmt.Sprintf("site:linkedin.com/posts %q", kw) },
		AcceptLink: func(href string) bool {
			return strings.HasPrefix(href, "https://www.linkedin.com/posts/") && !strings.Contains(href, "google")
		},
		MaxPosts:      10,
		ScrollRounds:  6,
		ReplyDelay:    45 * time.Second,
		RecoveryDelay: 10 * time.Second,
		Fallback:      func(author string) string { return fmt.Sprintf("Great insights, %s!", author) },
		Prompt: func(author, comment string) string {
			return fmt.Sprintf("Reply professionally and naturally to this LinkedIn comment.\n\nUser: %s\nComment: %s\n\nOne short sentence. No emojis. No links. Human.", author, comment)
		},
		LoginURL:  "https://www.linkedin.com/login",
		LoginDone: func(u string) bool { return strings.Contains(u, "linkedin.com/feed") },
	},
	job.Reddit: {
		Platform:  job.Reddit,
		Mode:      Containers,
		Selectors: redditSelectors,
		Rules: extract.Rules{
			Username:     igHandleRE,
			Timestamp:    relTokenRE,
			ExtraNoise:   []string{"more replies", "continue this thread", "share"},
			FallbackName: "Unknown",
		},
		SearchQuery: func(kw string) string { return fmt.Sprintf("site:reddit.com/comments %s", kw) },
		AcceptLink: func(href string) bool {
			return strings.Contains(href, "reddit.com") &&
				strings.Contains(href, "/comments/") &&
				!strings.Contains(href, "old.reddit.com")
		},
		MaxPosts:      2,
		ScrollRounds:  4,
		ReplyDelay:    45 * time.Second,
		RecoveryDelay: 10 * time.Second,
		Fallback:      func(author string) string { return fmt.Sprintf("Interesting perspective, %s!", author) },
		Prompt: func(author, comment string) string {
			return fmt.Sprintf("Reply casually and naturally to this Reddit comment.\n\nUser: %s\nComment: %s\n\nOne short sentence. Human. No hashtags.", author, comment)
		},
		LoginURL:  "https://www.reddit.com/login",
		LoginDone: func(u string) bool { return u == "https://www.reddit.com/" },
	},
	job.Twitter: {
		Platform:  job.Twitter,
		Mode:      Containers,
		Selectors: twitterSelectors,
		Rules: extract.Rules{
			Username:     igHandleRE,
			Timestamp:    relTokenRE,
			ExtraNoise:   []string{"show more replies", "show replies", "replying to"},
			FallbackName: "Unknown",
		},
		SearchQuery: func(kw string) string {
			return fmt.Sprintf("(site:twitter.com OR site:x.com) %q %q", kw, "status")
		},
		AcceptLink: func(href string) bool {
			return (strings.Contains(href, "twitter.com") || strings.Contains(href, "x.com")) &&
				strings.Contains(href, "/status/")
		},
		MaxPosts:      10,
		ScrollRounds:  10,
		ReplyDelay:    60 * time.Second,
		RecoveryDelay: 10 * time.Second,
		Fallback:      func(author string) string { return fmt.Sprintf("Interesting point, %s!", author) },
		Prompt: func(author, comment string) string {
			return fmt.Sprintf("Reply casually and naturally to this tweet.\n\nUser: %s\nTweet: %s\n\nOne short sentence. No hashtags. Human.", author, comment)
		},
		LoginURL:  "https://x.com/login",
		LoginDone: func(u string) bool { return strings.Contains(u, "/home") },
	},
}

// For returns the variant for a platform.
func For(p job.Platform) (Variant, error) {
	v, ok := variants[p]
	if !ok {
		return Variant{}, fmt.Errorf("no variant for platform %q", p)
	}
	return v, nil
}

// All returns every known variant, for table-driven checks.
func All() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, p := range []job.Platform{job.Facebook, job.Instagram, job.LinkedIn, job.Reddit, job.Twitter} {
		out = append(out, variants[p])
	}
	return out
}
