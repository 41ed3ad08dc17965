// Package tags implements the custom tag micro-syntax used on stock records:
//
//	行业:互联网{核心}; 概念:AI
//
// Segments are separated by ';'. Each segment is "category:name" with an
// optional "{detail}" suffix on the name. Parsing is permissive, the
// Validator is where malformed names and details are reported.
package tags

import (
	"regexp"
	"strings"
)

// Item is a single tag occurrence inside one category of one stock.
// An empty Detail means the tag carries no detail.
type Item struct {
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
}

// ParsedTags maps a category name to its tags in encounter order.
type ParsedTags map[string][]Item

var detailRegex = regexp.MustCompile(`^(.+?)\{(.+?)\}$`)

// Parse splits a raw custom tag string into categories.
func Parse(raw string) ParsedTags {
	parsed := make(ParsedTags)
	if raw == "" {
		return parsed
	}

	for _, section := range strings.Split(raw, ";") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		colon := strings.Index(section, ":")
		if colon <= 0 {
			continue
		}

		category := strings.TrimSpace(section[:colon])
		value := strings.TrimSpace(section[colon+1:])

		// The category exists even when its value is empty.
		items, ok := parsed[category]
		if !ok {
			items = []Item{}
		}

		if m := detailRegex.FindStringSubmatch(value); m != nil {
			items = append(items, Item{
				Name:   strings.TrimSpace(m[1]),
				Detail: strings.TrimSpace(m[2]),
			})
		} else if value != "" {
			items = append(items, Item{Name: value})
		}

		parsed[category] = items
	}

	return parsed
}

// Categories returns the category names of a parsed tag string in no
// particular order.
func (p ParsedTags) Categories() []string {
	out := make([]string, 0, len(p))
	for c := range p {
		out = append(out, c)
	}
	return out
}

// Format renders a single tag back into the micro-syntax.
func Format(category, name, detail string) string {
	base := category + ":" + name
	if detail == "" {
		return base
	}
	return base + "{" + detail + "}"
}
