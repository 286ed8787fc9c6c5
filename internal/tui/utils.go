package tui

import (
	"fmt"
	"sort"
	"strings"

	"mccwk.com/shortener/internal/landing"
)

// resultMarkdown renders a create payload as a markdown card. Keys are
// sorted so the card is stable between renders.
func resultMarkdown(r landing.Result) string {
	var b strings.Builder
	b.WriteString("## Link created\n\n")
	if s := r.ShortLink(); s != "" {
		fmt.Fprintf(&b, "`%s`\n\n", s)
	}

	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "- **%s**: %v\n", k, r[k])
	}
	return b.String()
}

// wrapText wraps text to the specified width, breaking on word boundaries
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		if len(line) <= width {
			result.WriteString(line)
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			} else {
				current += " " + word
			}
		}
		result.WriteString(current)
	}

	return result.String()
}
