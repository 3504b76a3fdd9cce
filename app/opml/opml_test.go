package opml

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	data := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head>
    <title>Subscriptions</title>
  </head>
  <body>
    <outline text="Tech">
      <outline type="rss" text="Example" xmlUrl="https://example.com/feed.xml" htmlUrl="https://example.com"/>
      <outline type="rss" text="Other" xmlUrl="https://other.example.com/rss"/>
    </outline>
    <outline text="News">
      <outline type="rss" text="Example" xmlUrl="https://example.com/feed.xml"/>
    </outline>
  </body>
</opml>`

	doc, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(doc.Body.Outlines) != 2 {
		t.Fatalf("Expected 2 category outlines, got: %d", len(doc.Body.Outlines))
	}

	tech := doc.Body.Outlines[0]
	if tech.Text != "Tech" {
		t.Errorf("Expected category display name 'Tech', got: %s", tech.Text)
	}
	if len(tech.Outlines) != 2 {
		t.Fatalf("Expected 2 feed outlines under Tech, got: %d", len(tech.Outlines))
	}
	if tech.Outlines[0].XMLURL != "https://example.com/feed.xml" {
		t.Errorf("Expected feed URL from xmlUrl attribute, got: %s", tech.Outlines[0].XMLURL)
	}
}

func TestParseRejectsNonOPML(t *testing.T) {
	if _, err := Parse(strings.NewReader(`<rss version="2.0"><channel/></rss>`)); err == nil {
		t.Error("Expected error for a document without an opml root")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse(strings.NewReader("definitely not xml")); err == nil {
		t.Error("Expected error for invalid XML")
	}
}
