package parser

import (
	"net/url"
	"time"
)

// Feed is the normalized, format-agnostic description of a syndication
// source. FeedLink is the canonical machine-fetchable URL and serves as the
// feed's identity key; SiteLink is the human-facing homepage.
type Feed struct {
	Title    string
	SiteLink string
	FeedLink string
}

// Entry is the normalized description of one article within a feed.
type Entry struct {
	Title     string
	Link      string
	Published *time.Time
	Summary   string
	Content   string
}

// IsZero reports whether the descriptor carries no usable feed-level data,
// which callers treat as "this document is not a feed".
func (f *Feed) IsZero() bool {
	return f.Title == "" && f.SiteLink == "" && f.FeedLink == ""
}

// Normalize completes a raw descriptor after parsing: a missing feed link is
// backfilled from the resolved fetch URL (RSS never declares one), the site
// link falls back to the feed link's origin, and the title falls back to the
// site link.
func (f *Feed) Normalize(resolvedURL string) {
	if f.FeedLink == "" {
		f.FeedLink = resolvedURL
	}
	if f.SiteLink == "" && f.FeedLink != "" {
		if u, err := url.Parse(f.FeedLink); err == nil && u.Host != "" {
			f.SiteLink = u.Scheme + "://" + u.Host
		}
	}
	if f.Title == "" {
		f.Title = f.SiteLink
	}
}

// normalizeEntry applies the entry-level defaulting rules: content is the
// richest available text, so when only a summary exists it backs the content
// field as well.
func normalizeEntry(e *Entry) {
	if e.Content == "" {
		e.Content = e.Summary
	}
}
