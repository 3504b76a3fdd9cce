package parser

import (
	"errors"
	"testing"
	"time"

	"feeder/app/xmldoc"
)

func parseDoc(t *testing.T, data string) (*Feed, []Entry, error) {
	t.Helper()
	doc, err := xmldoc.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Expected document to decode, got: %v", err)
	}
	return Parse(doc)
}

func TestParseRSS(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test Description</description>
    <item>
      <title>Test Item 1</title>
      <link>https://example.com/item1</link>
      <description>Test Item 1 Description</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Test Item 2</title>
      <link>https://example.com/item2</link>
      <description>Short form</description>
      <content:encoded>Rich form</content:encoded>
      <pubDate>Mon, 03 Jul 2023 11:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	feed, entries, err := parseDoc(t, rssData)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if feed.Title != "Test Feed" {
		t.Errorf("Expected title 'Test Feed', got: %s", feed.Title)
	}
	if feed.SiteLink != "https://example.com" {
		t.Errorf("Expected site link 'https://example.com', got: %s", feed.SiteLink)
	}
	if feed.FeedLink != "" {
		t.Errorf("Expected empty feed link before normalization, got: %s", feed.FeedLink)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got: %d", len(entries))
	}

	// Source document order is preserved
	if entries[0].Title != "Test Item 1" || entries[1].Title != "Test Item 2" {
		t.Errorf("Expected entries in source order, got: %q, %q", entries[0].Title, entries[1].Title)
	}

	// Only a description: content defaults to the summary
	if entries[0].Summary != "Test Item 1 Description" {
		t.Errorf("Expected summary from description, got: %q", entries[0].Summary)
	}
	if entries[0].Content != entries[0].Summary {
		t.Errorf("Expected content to default to summary, got: %q", entries[0].Content)
	}

	// content:encoded wins over the description
	if entries[1].Content != "Rich form" {
		t.Errorf("Expected content 'Rich form', got: %q", entries[1].Content)
	}
	if entries[1].Summary != "Short form" {
		t.Errorf("Expected summary 'Short form', got: %q", entries[1].Summary)
	}

	want := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if entries[0].Published == nil || !entries[0].Published.Equal(want) {
		t.Errorf("Expected published %v, got: %v", want, entries[0].Published)
	}
}

func TestParseRSSSingleItem(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Only Item</title>
      <link>https://example.com/only</link>
    </item>
  </channel>
</rss>`

	_, entries, err := parseDoc(t, rssData)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected a lone item promoted to one entry, got: %d", len(entries))
	}
	if entries[0].Title != "Only Item" {
		t.Errorf("Expected title 'Only Item', got: %s", entries[0].Title)
	}
}

func TestParseAtom(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title type="text">Test Atom Feed</title>
  <link rel="alternate" type="text/html" href="https://example.com"/>
  <link rel="self" href="https://example.com/atom.xml"/>
  <entry>
    <title>Entry One</title>
    <link href="https://example.com/1"/>
    <summary>First summary</summary>
    <content type="html">First content</content>
    <published>2023-07-03T10:00:00Z</published>
    <updated>2023-07-04T10:00:00Z</updated>
  </entry>
  <entry>
    <title>Entry Two</title>
    <link href="https://example.com/2"/>
    <summary>Second summary</summary>
    <updated>2023-07-05T10:00:00Z</updated>
  </entry>
  <entry>
    <title>Entry Three</title>
    <link href="https://example.com/3"/>
    <content type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml">Third content</div></content>
    <updated>2023-07-06T10:00:00Z</updated>
  </entry>
</feed>`

	feed, entries, err := parseDoc(t, atomData)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if feed.Title != "Test Atom Feed" {
		t.Errorf("Expected title 'Test Atom Feed', got: %s", feed.Title)
	}
	if feed.SiteLink != "https://example.com" {
		t.Errorf("Expected site link from alternate, got: %s", feed.SiteLink)
	}
	if feed.FeedLink != "https://example.com/atom.xml" {
		t.Errorf("Expected feed link from self, got: %s", feed.FeedLink)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got: %d", len(entries))
	}

	one := entries[0]
	if one.Title != "Entry One" {
		t.Errorf("Expected title 'Entry One', got: %s", one.Title)
	}
	if one.Link != "https://example.com/1" {
		t.Errorf("Expected link 'https://example.com/1', got: %s", one.Link)
	}
	if one.Content != "First content" {
		t.Errorf("Expected content 'First content', got: %q", one.Content)
	}
	wantPublished := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)
	if one.Published == nil || !one.Published.Equal(wantPublished) {
		t.Errorf("Expected published %v, got: %v", wantPublished, one.Published)
	}

	// No published timestamp: updated stands in
	two := entries[1]
	wantUpdated := time.Date(2023, 7, 5, 10, 0, 0, 0, time.UTC)
	if two.Published == nil || !two.Published.Equal(wantUpdated) {
		t.Errorf("Expected published defaulted from updated %v, got: %v", wantUpdated, two.Published)
	}
	if two.Content != "Second summary" {
		t.Errorf("Expected content defaulted from summary, got: %q", two.Content)
	}

	three := entries[2]
	if three.Content != "Third content" {
		t.Errorf("Expected xhtml content 'Third content', got: %q", three.Content)
	}
}

func TestParseAtomSingleEntry(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <entry>
    <title>Only Entry</title>
    <link href="https://example.com/only"/>
  </entry>
</feed>`

	feed, entries, err := parseDoc(t, atomData)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if feed.SiteLink != "https://example.com" {
		t.Errorf("Expected site link from lone link mapping, got: %s", feed.SiteLink)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected a lone entry promoted to one entry, got: %d", len(entries))
	}
}

func TestParseEmptyFeed(t *testing.T) {
	atomData := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Empty Feed</title>
  <link href="https://example.com"/>
</feed>`

	_, entries, err := parseDoc(t, atomData)
	if err != nil {
		t.Fatalf("Expected no error for a feed with zero entries, got: %v", err)
	}
	if entries == nil {
		t.Fatal("Expected an empty entry slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries, got: %d", len(entries))
	}
}

func TestParseUnsupportedRoot(t *testing.T) {
	_, _, err := parseDoc(t, `<html><body>not a feed</body></html>`)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestParseMalformedEntryFailsWholeParse(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <item>
      <title>Good Item</title>
      <link>https://example.com/good</link>
    </item>
    <item>
      <title>Bad Item</title>
      <content lang="en">mystery shape</content>
    </item>
  </channel>
</rss>`

	_, _, err := parseDoc(t, rssData)
	if !errors.Is(err, ErrUnhandledShape) {
		t.Fatalf("Expected ErrUnhandledShape for the malformed entry, got: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	feed := &Feed{}
	feed.Normalize("https://example.com/feed.xml")

	if feed.FeedLink != "https://example.com/feed.xml" {
		t.Errorf("Expected feed link backfilled from resolved URL, got: %s", feed.FeedLink)
	}
	if feed.SiteLink != "https://example.com" {
		t.Errorf("Expected site link derived from feed link origin, got: %s", feed.SiteLink)
	}
	if feed.Title != "https://example.com" {
		t.Errorf("Expected title defaulted from site link, got: %s", feed.Title)
	}
}

func TestNormalizeKeepsExistingValues(t *testing.T) {
	feed := &Feed{Title: "Example", SiteLink: "https://example.com", FeedLink: "https://example.com/feed.xml"}
	feed.Normalize("https://other.example.com/resolved.xml")

	if feed.FeedLink != "https://example.com/feed.xml" {
		t.Errorf("Expected declared feed link kept, got: %s", feed.FeedLink)
	}
	if feed.Title != "Example" || feed.SiteLink != "https://example.com" {
		t.Errorf("Expected existing values untouched, got: %q, %q", feed.Title, feed.SiteLink)
	}
}

func TestParseAndNormalizeExampleScenario(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example</title>
    <item>
      <title>Hello</title>
      <link>https://example.com/1</link>
      <pubDate>Mon, 01 Jan 2024 00:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

	feed, entries, err := parseDoc(t, rssData)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	feed.Normalize("https://example.com/feed.xml")

	if feed.Title != "Example" {
		t.Errorf("Expected title 'Example', got: %s", feed.Title)
	}
	if feed.SiteLink != "https://example.com" {
		t.Errorf("Expected site link 'https://example.com', got: %s", feed.SiteLink)
	}
	if feed.FeedLink != "https://example.com/feed.xml" {
		t.Errorf("Expected feed link 'https://example.com/feed.xml', got: %s", feed.FeedLink)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got: %d", len(entries))
	}
	if entries[0].Title != "Hello" {
		t.Errorf("Expected entry title 'Hello', got: %s", entries[0].Title)
	}
	if entries[0].Link != "https://example.com/1" {
		t.Errorf("Expected entry link 'https://example.com/1', got: %s", entries[0].Link)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if entries[0].Published == nil || !entries[0].Published.Equal(want) {
		t.Errorf("Expected published %v, got: %v", want, entries[0].Published)
	}
}
