package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mccwk.com/shortener/internal/landing"
)

// formModel is the new-link form. The inputs only hold what is on screen;
// every edit is reported as a landing.FieldChanged so the draft lives in one
// place.
type formModel struct {
	url   textinput.Model
	hash  textinput.Model
	focus landing.Field
}

func newFormModel() formModel {
	url := textinput.New()
	url.Placeholder = "https://example.com"
	url.Prompt = ""
	url.Width = 50
	url.Focus()

	hash := textinput.New()
	hash.Placeholder = "example"
	hash.Prompt = ""
	hash.Width = 50

	return formModel{url: url, hash: hash, focus: landing.FieldURL}
}

func (f *formModel) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.url.Width = w
	f.hash.Width = w
}

func (f *formModel) focusField(field landing.Field) tea.Cmd {
	f.focus = field
	if field == landing.FieldHash {
		f.url.Blur()
		return f.hash.Focus()
	}
	f.hash.Blur()
	return f.url.Focus()
}

func (f *formModel) toggleFocus() tea.Cmd {
	if f.focus == landing.FieldURL {
		return f.focusField(landing.FieldHash)
	}
	return f.focusField(landing.FieldURL)
}

// reset empties both inputs and puts the cursor back on the URL.
func (f *formModel) reset() tea.Cmd {
	f.url.SetValue("")
	f.hash.SetValue("")
	return f.focusField(landing.FieldURL)
}

// update forwards msg to the focused input and reports a change, if any.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd, *landing.FieldChanged) {
	var cmd tea.Cmd
	switch f.focus {
	case landing.FieldHash:
		before := f.hash.Value()
		f.hash, cmd = f.hash.Update(msg)
		if v := f.hash.Value(); v != before {
			return f, cmd, &landing.FieldChanged{Field: landing.FieldHash, Value: v}
		}
	default:
		before := f.url.Value()
		f.url, cmd = f.url.Update(msg)
		if v := f.url.Value(); v != before {
			return f, cmd, &landing.FieldChanged{Field: landing.FieldURL, Value: v}
		}
	}
	return f, cmd, nil
}

func (f formModel) view(loading bool, spinner string) string {
	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("238"))

	input := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)

	urlBox := input.BorderForeground(lipgloss.Color(inputBorder(f.focus == landing.FieldURL)))
	hashBox := input.BorderForeground(lipgloss.Color(inputBorder(f.focus == landing.FieldHash)))

	var button string
	if loading {
		button = buttonStyle.Background(lipgloss.Color("245")).Render(spinner)
	} else {
		button = buttonStyle.Background(lipgloss.Color("27")).Render("Create")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		label.Render("URL *"),
		urlBox.Render(f.url.View()),
		label.Render("Hash"),
		hashBox.Render(f.hash.View()),
		"",
		button,
	)
}

func inputBorder(focused bool) string {
	if focused {
		return "27"
	}
	return "250"
}

var buttonStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("15")).
	Bold(true).
	Padding(0, 3)
