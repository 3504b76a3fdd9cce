// Package parser normalizes RSS and Atom documents, published in materially
// different XML shapes, into one canonical descriptor pair: a Feed plus its
// Entries in source order. It operates on the generic tree produced by
// xmldoc, not on format-specific structs, because real-world feeds disagree
// on whether values are plain strings, typed text blocks, or link lists.
package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"feeder/app/xmldoc"
)

// ErrUnsupportedFormat signals a document whose root is neither an rss nor a
// feed element.
var ErrUnsupportedFormat = errors.New("unsupported feed format")

// Parse dispatches on the document root and returns the canonical descriptor
// pair. Entries keep source document order; a feed with no entries yields an
// empty slice, not an error. A single malformed entry fails the whole parse:
// a feed document is one atomic unit of trust, never a partial result.
func Parse(doc map[string]any) (*Feed, []Entry, error) {
	if rss, ok := doc["rss"].(map[string]any); ok {
		return parseRSS(rss)
	}
	if feed, ok := doc["feed"].(map[string]any); ok {
		return parseAtom(feed)
	}
	return nil, nil, ErrUnsupportedFormat
}

func parseRSS(root map[string]any) (*Feed, []Entry, error) {
	channel, ok := root["channel"].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%w: rss document has no channel", ErrUnsupportedFormat)
	}

	// RSS has no feed-link concept; the fetch layer backfills FeedLink from
	// the resolved response URL during normalization.
	feed := &Feed{
		Title:    asString(channel["title"]),
		SiteLink: asString(channel["link"]),
	}

	entries, err := parseEntries(xmldoc.List(channel["item"]), parseRSSEntry)
	if err != nil {
		return nil, nil, err
	}
	return feed, entries, nil
}

func parseRSSEntry(item map[string]any) (Entry, error) {
	e := Entry{
		Title:   asString(item["title"]),
		Link:    asString(item["link"]),
		Summary: asString(item["description"]),
	}

	// Decoders differ on whether the content module's namespace prefix
	// survives in the key, so accept both spellings.
	raw := item["content"]
	if raw == nil {
		raw = item["content:encoded"]
	}
	if raw == nil {
		raw = item["encoded"]
	}
	content, err := extractText(raw)
	if err != nil {
		return Entry{}, err
	}
	e.Content = content

	if pubDate := asString(item["pubDate"]); pubDate != "" {
		ts, err := parseTime(pubDate)
		if err != nil {
			return Entry{}, err
		}
		e.Published = &ts
	}

	return e, nil
}

func parseAtom(root map[string]any) (*Feed, []Entry, error) {
	title, err := extractText(root["title"])
	if err != nil {
		return nil, nil, err
	}
	siteLink, feedLink, err := extractFeedLinks(root["link"])
	if err != nil {
		return nil, nil, err
	}

	feed := &Feed{
		Title:    title,
		SiteLink: siteLink,
		FeedLink: feedLink,
	}

	entries, err := parseEntries(xmldoc.List(root["entry"]), parseAtomEntry)
	if err != nil {
		return nil, nil, err
	}
	return feed, entries, nil
}

func parseAtomEntry(item map[string]any) (Entry, error) {
	title, err := extractText(item["title"])
	if err != nil {
		return Entry{}, err
	}
	link, err := extractEntryLink(item["link"])
	if err != nil {
		return Entry{}, err
	}
	summary, err := extractText(item["summary"])
	if err != nil {
		return Entry{}, err
	}
	content, err := extractText(item["content"])
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		Title:   title,
		Link:    link,
		Summary: summary,
		Content: content,
	}

	if published := asString(item["published"]); published != "" {
		ts, err := parseTime(published)
		if err != nil {
			return Entry{}, err
		}
		e.Published = &ts
	}
	if e.Published == nil {
		// Atom entries are only required to carry an updated timestamp.
		if updated := asString(item["updated"]); updated != "" {
			ts, err := parseTime(updated)
			if err != nil {
				return Entry{}, err
			}
			e.Published = &ts
		}
	}

	return e, nil
}

func parseEntries(items []any, parseOne func(map[string]any) (Entry, error)) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnhandledShape, raw)
		}
		e, err := parseOne(item)
		if err != nil {
			return nil, err
		}
		normalizeEntry(&e)
		entries = append(entries, e)
	}
	return entries, nil
}

// parseTime accepts the loose, human-readable timestamp formats feeds publish
// (RFC 1123 pubDates, RFC 3339 atom timestamps, and worse).
func parseTime(raw string) (time.Time, error) {
	ts, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", raw, err)
	}
	return ts, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
