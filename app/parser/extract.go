package parser

import (
	"errors"
	"fmt"
)

// ErrUnhandledShape signals a text or link value in a shape the extractor
// does not recognize. It is deliberately a hard error rather than an empty
// result: an unknown shape means an input the parser has never been taught,
// and masking it as "no value" would hide malformed feeds instead of
// rejecting them.
var ErrUnhandledShape = errors.New("unhandled value shape")

// extractText pulls plain text out of a heterogeneous parsed-XML value: a
// bare string, the payload of an html/text block, or the text nested inside
// an xhtml block's div wrapper.
func extractText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case map[string]any:
		switch t["@type"] {
		case "html", "text":
			s, _ := t["#text"].(string)
			return s, nil
		case "xhtml":
			// The payload sits one level down inside a div wrapper, which
			// itself decodes to a mapping when it carries attributes (the
			// usual xmlns) and to a bare string when it does not.
			switch div := t["div"].(type) {
			case map[string]any:
				s, _ := div["#text"].(string)
				return s, nil
			case string:
				return div, nil
			}
			return "", nil
		}
	}
	return "", fmt.Errorf("%w: %v", ErrUnhandledShape, v)
}

// mappingHref resolves a single link mapping: an alternate link's href wins
// regardless of media type, otherwise any href present is taken.
func mappingHref(m map[string]any) (string, error) {
	href, _ := m["@href"].(string)
	if m["@rel"] == "alternate" {
		return href, nil
	}
	if href != "" {
		return href, nil
	}
	return "", fmt.Errorf("%w: %v", ErrUnhandledShape, m)
}

// extractFeedLinks resolves a feed-level link value into (siteLink, feedLink).
// With multiple candidates, rel="self" names the feed's own fetch URL and
// rel="alternate" the homepage; when no alternate exists any other href
// stands in for the site link.
func extractFeedLinks(v any) (string, string, error) {
	switch t := v.(type) {
	case nil:
		return "", "", nil
	case string:
		return t, "", nil
	case map[string]any:
		href, err := mappingHref(t)
		if err != nil {
			return "", "", err
		}
		return href, "", nil
	case []any:
		return classifyFeedLinks(t)
	}
	return "", "", fmt.Errorf("%w: %v", ErrUnhandledShape, v)
}

func classifyFeedLinks(links []any) (string, string, error) {
	if len(links) == 1 {
		m, ok := links[0].(map[string]any)
		if !ok {
			return "", "", fmt.Errorf("%w: %v", ErrUnhandledShape, links[0])
		}
		href, _ := m["@href"].(string)
		return href, "", nil
	}

	var siteLink, feedLink string
	for _, raw := range links {
		m, ok := raw.(map[string]any)
		if !ok {
			return "", "", fmt.Errorf("%w: %v", ErrUnhandledShape, raw)
		}
		href, _ := m["@href"].(string)
		switch m["@rel"] {
		case "self":
			feedLink = href
		case "alternate":
			siteLink = href
		}
	}

	if siteLink == "" && feedLink != "" {
		for _, raw := range links {
			m, _ := raw.(map[string]any)
			if href, _ := m["@href"].(string); href != "" && href != feedLink {
				siteLink = href
				break
			}
		}
	}

	return siteLink, feedLink, nil
}

// extractEntryLink picks a single best-effort URL for one entry. An entry may
// carry several links (comments, replies, the article itself); unlike the
// feed-level list they are not disambiguated by relation, the first
// resolvable one wins.
func extractEntryLink(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case []any:
		if len(t) == 0 {
			return "", nil
		}
		return extractEntryLink(t[0])
	case map[string]any:
		return mappingHref(t)
	}
	return "", fmt.Errorf("%w: %v", ErrUnhandledShape, v)
}
