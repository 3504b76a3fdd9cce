// Package xmldoc decodes raw XML into the generic nested map/sequence tree
// the format parsers operate on. Attributes are prefixed with "@" and element
// character data is stored under "#text", so <link rel="self" href="..."/>
// becomes map[string]any{"@rel": "self", "@href": "..."}. Repeated sibling
// elements become a []any; a lone element stays a plain value.
package xmldoc

import (
	"fmt"

	"github.com/clbanning/mxj/v2"
)

func init() {
	mxj.SetAttrPrefix("@")
}

// Parse decodes XML bytes into nested map[string]any / []any / string values.
func Parse(data []byte) (map[string]any, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return map[string]any(m), nil
}

// List coerces a value into a sequence, promoting a lone element to a
// one-element slice. A nil value yields nil.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
