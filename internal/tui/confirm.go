package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"mccwk.com/shortener/internal/landing"
	"mccwk.com/shortener/internal/services"
)

// confirmModel shows a created link. It is purely presentational: dismissing
// it is handled by the root model.
type confirmModel struct {
	result   landing.Result
	rendered string
	preview  *services.Preview
	style    string
	width    int
}

func newConfirmModel(result landing.Result, style string, width int) confirmModel {
	c := confirmModel{result: result, style: style}
	c.resize(width)
	return c
}

// resize re-renders the markdown card for a new width.
func (c *confirmModel) resize(width int) {
	if width < 30 {
		width = 30
	}
	c.width = width
	md := resultMarkdown(c.result)

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(c.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		slog.Debug("markdown renderer unavailable", "error", err)
		c.rendered = md
		return
	}
	out, err := r.Render(md)
	if err != nil {
		slog.Debug("markdown render failed", "error", err)
		c.rendered = md
		return
	}
	c.rendered = strings.TrimRight(out, "\n")
}

func (c confirmModel) view() string {
	parts := []string{c.rendered}

	if c.preview != nil && (c.preview.Title != "" || c.preview.Description != "") {
		title := lipgloss.NewStyle().Bold(true).Render(c.preview.Title)
		desc := lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Render(wrapText(c.preview.Description, c.width))
		parts = append(parts, "", title, desc)
	}

	hints := "n/esc: new link"
	if c.result.ShortLink() != "" {
		hints = "c: copy • o: open • " + hints
	}
	parts = append(parts, "", lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(hints))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
