// Package opml decodes OPML subscription lists.
package opml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Document is the root of an OPML file. Decoding rejects any document whose
// root element is not <opml>.
type Document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Body    Body     `xml:"body"`
}

// Body holds the top-level outlines.
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline is either a category grouping (child outlines, no xmlUrl) or a feed
// reference (xmlUrl set). The text attribute carries the display name.
type Outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr"`
	Type     string    `xml:"type,attr"`
	XMLURL   string    `xml:"xmlUrl,attr"`
	HTMLURL  string    `xml:"htmlUrl,attr"`
	Outlines []Outline `xml:"outline"`
}

// Parse decodes an OPML document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode opml: %w", err)
	}
	return &doc, nil
}
