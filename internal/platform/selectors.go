package platform

// DOM selectors per platform. These are isolated here because the sites
// change their DOMs frequently; update these when extraction breaks.

// Selectors names the locators one variant needs. Text-suffixed fields
// locate buttons by visible label where the platform exposes no stable
// attribute. Empty fields mean the variant has no such affordance.
type Selectors struct {
	// Harvesting.
	Fragment     string // fragment-stream text locator
	CommentPanel string // scrollable overflow panel holding the thread
	Container    string // per-comment container
	Author       string // author element within a container
	Body         string // text-bearing leaves within a container ("" = whole container)
	Time         string // time element within a container
	OpenThread   string // affordance that reveals the comment thread
	ExpandText   string // label of "load more" style buttons ("" = selector alone suffices)
	ExpandSel    string // selector those buttons match

	// Replying.
	ReplyButton     string // within the marked container
	ReplyButtonText string // label fallback when no stable selector exists
	Editor          string
	Submit          string
	SubmitText      string
}

var instagramSelectors = Selectors{
	Fragment:     `span.x193iq5w:not([role])`,
	CommentPanel: `.x5yr21d.xw2csxc.x1odjw0f.x1n2onr6`,
	Editor:       `textarea[aria-label="Add a comment…"]`,
	Submit:       `div[role="button"]`,
	SubmitText:   "Post",
}

var facebookSelectors = Selectors{
	Container:       `div[role="dialog"] div[role="article"], div[role="article"]`,
	Author:          `a`,
	Body:            `span`,
	Time:            `abbr`,
	CommentPanel:    `div[role="dialog"] div[style*="overflow"]`,
	ExpandSel:       `div[role="button"]`,
	ExpandText:      "more",
	ReplyButtonText: "Reply",
	ReplyButton:     `div[role="button"]`,
	Editor:          `div[contenteditable="true"]`,
}

var linkedinSelectors = Selectors{
	Container:   `article[class*="comments-comment-entity"]`,
	Author:      `span[class*="comments-comment-meta__description-title"]`,
	Body:        `span[class*="comments-comment-item__main-content"] span[dir="ltr"]`,
	Time:        `time[class*="comments-comment-meta__data"]`,
	OpenThread:  `button[aria-label*="Comment"]`,
	ExpandSel:   `button[class*="load-more-comments"]`,
	ReplyButton: `button[class*="comments-comment-social-bar__reply-action-button"]`,
	Editor:      `div.ql-editor[contenteditable="true"]`,
	Submit:      `button[class*="comments-comment-box__submit-button"]`,
}

var redditSelectors = Selectors{
	Container:       `shreddit-comment, div[data-testid="comment"]`,
	Author:          `a[href*="/user/"]`,
	Time:            `time`,
	ReplyButton:     `button`,
	ReplyButtonText: "Reply",
	Editor:          `div[contenteditable="true"]`,
}

var twitterSelectors = Selectors{
	Container:   `article[data-testid="tweet"]`,
	Author:      `[data-testid="User-Name"] span`,
	Body:        `[data-testid="tweetText"]`,
	Time:        `time`,
	ReplyButton: `[data-testid="reply"]`,
	Editor:      `[data-testid="tweetTextarea_0"]`,
	Submit:      `[data-testid="tweetButton"]`,
}
