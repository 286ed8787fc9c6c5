package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"mccwk.com/shortener/internal/cookies"
	"mccwk.com/shortener/internal/landing"
)

// mountMsg starts background resolution. Sending it again is harmless.
type mountMsg struct{}

type cookieLoadedMsg struct {
	photo landing.Photo
	ok    bool
	err   error
}

type photoFetchedMsg struct {
	photo landing.Photo
	err   error
}

type photoSavedMsg struct {
	err error
}

func (m Model) loadCookie() tea.Cmd {
	store := m.cookies
	return func() tea.Msg {
		p, ok, err := cookies.LoadPhoto(context.Background(), store)
		return cookieLoadedMsg{photo: p, ok: ok, err: err}
	}
}

func (m Model) fetchPhoto() tea.Cmd {
	photos := m.photos
	return func() tea.Msg {
		p, err := photos.RandomPhoto(context.Background())
		return photoFetchedMsg{photo: p, err: err}
	}
}

func (m Model) savePhoto(c landing.Cookie) tea.Cmd {
	store := m.cookies
	return func() tea.Msg {
		return photoSavedMsg{err: cookies.SavePhoto(context.Background(), store, c)}
	}
}

// updateBackground drives the resolver. handled is false for messages that
// belong to someone else.
func (m Model) updateBackground(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case mountMsg:
		if !m.resolver.Begin() {
			return m, nil, true
		}
		if m.cookies == nil {
			return m, m.missCookie(), true
		}
		return m, m.loadCookie(), true

	case cookieLoadedMsg:
		if msg.err != nil {
			slog.Warn("photo cookie unreadable", "error", msg.err)
		}
		if msg.ok {
			m.resolver.AdoptCached(msg.photo)
			slog.Info("background from cookie", "url", msg.photo.URL)
			return m, nil, true
		}
		return m, m.missCookie(), true

	case photoFetchedMsg:
		if msg.err != nil {
			text := m.resolver.Fail(msg.err)
			slog.Warn("background photo unavailable", "error", msg.err)
			return m, m.raise(text), true
		}
		cookie := m.resolver.AdoptFetched(msg.photo, m.now())
		slog.Info("background from provider", "url", msg.photo.URL, "author", msg.photo.Author.Username)
		if m.cookies == nil {
			return m, nil, true
		}
		return m, m.savePhoto(cookie), true

	case photoSavedMsg:
		if msg.err != nil {
			slog.Warn("failed to cache background photo", "error", msg.err)
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m *Model) missCookie() tea.Cmd {
	if m.photos == nil {
		m.resolver.Fail(errNoProvider)
		slog.Debug("no photo provider configured, keeping fallback color")
		return nil
	}
	return m.fetchPhoto()
}
