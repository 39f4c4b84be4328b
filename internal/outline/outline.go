// Package outline turns loosely structured AI output into ordered heading/body sections.
package outline

import (
	"strings"
	"unicode"
)

// Section is one heading with the body lines that followed it.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Parse splits raw text into sections. Lines starting with '#' or '*' open a new
// heading; any other non-blank line is body text for the current heading.
//
// A heading is emitted only once it has at least one body line, so a heading
// directly followed by another heading is dropped. Body lines that appear before
// the first heading are dropped too.
func Parse(raw string) []Section {
	var (
		sections []Section
		heading  string
		body     []string
	)

	flush := func() {
		if heading != "" && len(body) > 0 {
			sections = append(sections, Section{
				Heading: heading,
				Body:    strings.Join(body, "\n"),
			})
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if IsHeading(line) {
			flush()
			heading = headingText(line)
			body = nil
			continue
		}
		body = append(body, line)
	}
	flush()

	return sections
}

// IsHeading reports whether a trimmed line is a heading marker.
func IsHeading(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*")
}

// headingText strips the marker run ('#', '*' and whitespace in any mix).
func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(line, func(r rune) bool {
		return r == '#' || r == '*' || unicode.IsSpace(r)
	}))
}
