package tui

import (
	"github.com/charmbracelet/lipgloss"

	"mccwk.com/shortener/internal/landing"
)

const pageTitle = "Url Shortener"

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	if _, ok := m.submission.Result(); ok {
		body = m.confirm.view()
	} else {
		body = m.form.view(m.submission.Loading(), m.spinner.View())
	}

	card := lipgloss.NewStyle().
		Background(lipgloss.Color("255")).
		Foreground(lipgloss.Color("235")).
		Padding(1, 2).
		Width(m.cardWidth()).
		Render(body)

	blocks := []string{m.renderTitle(), card}
	if banner := m.renderBanner(); banner != "" {
		blocks = append(blocks, banner)
	}
	if credit := m.renderAttribution(); credit != "" {
		blocks = append(blocks, credit)
	}
	blocks = append(blocks, m.renderHelp())
	page := lipgloss.JoinVertical(lipgloss.Center, blocks...)

	height := m.height
	if m.showLogPanel {
		height -= logPanelHeight
	}
	bg := lipgloss.Color(m.resolver.State().Color)
	content := lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, page,
		lipgloss.WithWhitespaceBackground(bg),
	)
	if m.showLogPanel {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.renderLogPanel())
	}

	return m.alert.Render(content)
}

func (m Model) renderTitle() string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(m.backgroundColor()).
		Padding(0, 2).
		MarginBottom(1).
		Render(pageTitle)
}

// renderBanner shows the transient error, if one is visible.
func (m Model) renderBanner() string {
	e, ok := m.banner.Current()
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("124")).
		Background(lipgloss.Color("224")).
		Padding(0, 2).
		MarginTop(1).
		Width(m.cardWidth()).
		Render(e.Text)
}

func (m Model) renderAttribution() string {
	st := m.resolver.State()
	if st.Kind != landing.BackgroundCachedPhoto {
		return ""
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(m.backgroundColor())
	name := lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("15")).Background(m.backgroundColor())
	return lipgloss.JoinVertical(lipgloss.Center,
		"",
		dim.Render("Photo by ")+name.Render(st.Photo.Author.Name)+dim.Render(" on ")+name.Render("Unsplash"),
		dim.Render(st.Photo.URL),
	)
}

func (m Model) renderHelp() string {
	text := "Enter: create • Tab: next field • Ctrl+L: logs • Ctrl+C: quit"
	if m.resolver.State().Kind == landing.BackgroundCachedPhoto {
		text = "Enter: create • Tab: next field • Ctrl+O: photographer • Ctrl+L: logs • Ctrl+C: quit"
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(m.backgroundColor()).
		MarginTop(1).
		Render(text)
}

func (m Model) backgroundColor() lipgloss.Color {
	return lipgloss.Color(m.resolver.State().Color)
}

func (m Model) renderLogPanel() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("6"))

	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("243"))

	title := titleStyle.Render("Logs") +
		hintStyle.Render("  PgUp/PgDn: scroll • Ctrl+L: close")

	var body string
	if m.logReady && m.logSink != nil {
		body = title + "\n" + m.logViewport.View()
	} else {
		body = title + "\n" + hintStyle.Render("(no log sink configured)")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("237")).
		Padding(0, 1).
		Width(m.width - 4).
		Render(body)
}
