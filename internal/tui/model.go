package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"go.dalton.dog/bubbleup"

	"mccwk.com/shortener/internal/cookies"
	"mccwk.com/shortener/internal/landing"
	"mccwk.com/shortener/internal/logging"
	"mccwk.com/shortener/internal/services"
)

// logPanelHeight is the total screen rows reserved for the log panel (including
// its border and title) when it is visible.
const logPanelHeight = 12

var errNoProvider = errors.New("no photo provider configured")

// LinkCreator creates short links.
type LinkCreator interface {
	Create(ctx context.Context, draft landing.DraftLink) (landing.Result, error)
}

// PhotoSource supplies a random background photo.
type PhotoSource interface {
	RandomPhoto(ctx context.Context) (landing.Photo, error)
}

// PagePreviewer describes a link destination.
type PagePreviewer interface {
	Preview(ctx context.Context, url string) (services.Preview, error)
}

// Deps are the collaborators of the landing page. Only Links is required.
type Deps struct {
	Links    LinkCreator
	Photos   PhotoSource
	Cookies  cookies.Store
	Colors   landing.ColorSource
	Previews PagePreviewer
	LogSink  *logging.MemorySink

	// MarkdownStyle is a glamour standard style name; "dark" when empty.
	MarkdownStyle string
	Now           func() time.Time
}

// afterFunc schedules fn after d; tea.Tick in production.
type afterFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

type linkCreatedMsg struct {
	draft  landing.DraftLink
	result landing.Result
	err    error
}

type previewLoadedMsg struct {
	seq     uint64
	preview services.Preview
	err     error
}

// bannerExpiredMsg asks to clear error id, if it is still the visible one.
type bannerExpiredMsg struct {
	id uint64
}

// notifyMsg surfaces a short-lived informational toast.
type notifyMsg struct {
	level   string // "info" | "warning" | "error"
	message string
}

func notifyCmd(level, message string) tea.Cmd {
	return func() tea.Msg { return notifyMsg{level: level, message: message} }
}

func notifyKey(level string) string {
	switch level {
	case "warning":
		return bubbleup.WarnKey
	case "error":
		return bubbleup.ErrorKey
	default:
		return bubbleup.InfoKey
	}
}

type Model struct {
	links    LinkCreator
	photos   PhotoSource
	cookies  cookies.Store
	previews PagePreviewer
	now      func() time.Time
	after    afterFunc

	submission landing.Submission
	resolver   landing.Resolver
	banner     landing.Banner

	form    formModel
	confirm confirmModel
	spinner spinner.Model
	mdStyle string

	// resultSeq numbers created links so a late preview for an earlier link
	// is dropped.
	resultSeq uint64

	alert bubbleup.AlertModel

	logSink      *logging.MemorySink
	logViewport  viewport.Model
	logReady     bool
	showLogPanel bool

	width    int
	height   int
	quitting bool
}

// NewModel builds the landing page and paints the fallback background
// immediately; the photo is resolved once the program starts.
func NewModel(d Deps) Model {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	style := d.MarkdownStyle
	if style == "" {
		style = "dark"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	alert := bubbleup.NewAlertModel(50, false, 3*time.Second).
		WithMinWidth(20).
		WithPosition(bubbleup.TopRightPosition)

	m := Model{
		links:    d.Links,
		photos:   d.Photos,
		cookies:  d.Cookies,
		previews: d.Previews,
		now:      now,
		after:    tea.Tick,
		form:     newFormModel(),
		spinner:  sp,
		mdStyle:  style,
		alert:    alert,
		logSink:  d.LogSink,
	}
	m.resolver.Mount(d.Colors)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.alert.Init(),
		func() tea.Msg { return mountMsg{} },
	)
}

// raise shows text in the error banner and schedules its dismissal.
func (m *Model) raise(text string) tea.Cmd {
	e := m.banner.Show(text)
	return m.after(landing.ErrorLifetime, func(time.Time) tea.Msg {
		return bannerExpiredMsg{id: e.ID}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var cmds []tea.Cmd

	// Always tick the alert model so its dismiss timer works.
	outAlert, alertCmd := m.alert.Update(msg)
	m.alert = outAlert.(bubbleup.AlertModel)
	if alertCmd != nil {
		cmds = append(cmds, alertCmd)
	}

	if n, ok := msg.(notifyMsg); ok {
		cmds = append(cmds, m.alert.NewAlertCmd(notifyKey(n.level), n.message))
		return m, tea.Batch(cmds...)
	}

	var (
		cmd     tea.Cmd
		handled bool
	)
	m, cmd, handled = m.updateBackground(msg)
	if handled {
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case bannerExpiredMsg:
		m.banner.Expire(msg.id)
		return m, tea.Batch(cmds...)

	case linkCreatedMsg:
		cmds = append(cmds, m.settle(msg)...)
		return m, tea.Batch(cmds...)

	case previewLoadedMsg:
		if _, ok := m.submission.Result(); ok && msg.seq == m.resultSeq {
			if msg.err != nil {
				slog.Debug("destination preview unavailable", "error", msg.err)
			} else {
				p := msg.preview
				m.confirm.preview = &p
			}
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.submission.Loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.setWidth(m.cardWidth() - 6)
		if _, ok := m.submission.Result(); ok {
			m.confirm.resize(m.cardWidth() - 8)
		}

		logInnerH := logPanelHeight - 4
		if !m.logReady {
			m.logViewport = viewport.New(m.width-4, logInnerH)
			m.logReady = true
		} else {
			m.logViewport.Width = m.width - 4
			m.logViewport.Height = logInnerH
		}
		if m.showLogPanel {
			m.refreshLogViewport()
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "ctrl+l":
			m.showLogPanel = !m.showLogPanel
			if m.showLogPanel {
				m.refreshLogViewport()
			}
			return m, tea.Batch(cmds...)

		case "ctrl+o":
			st := m.resolver.State()
			if st.Kind == landing.BackgroundCachedPhoto {
				cmds = append(cmds, openURL(st.Photo.Author.ProfileURL()))
			}
			return m, tea.Batch(cmds...)

		case "pgup", "pgdown":
			if m.showLogPanel && m.logReady {
				m.logViewport, cmd = m.logViewport.Update(msg)
				cmds = append(cmds, cmd)
				return m, tea.Batch(cmds...)
			}
		}

		if _, ok := m.submission.Result(); ok {
			cmds = append(cmds, m.updateConfirm(msg))
		} else {
			cmds = append(cmds, m.updateForm(msg))
		}
		return m, tea.Batch(cmds...)
	}

	// Blink and other input housekeeping.
	if _, ok := m.submission.Result(); !ok {
		m.form, cmd, _ = m.form.update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return m.form.toggleFocus()
	case "enter":
		return m.submit()
	}

	var (
		cmd    tea.Cmd
		change *landing.FieldChanged
	)
	m.form, cmd, change = m.form.update(msg)
	if change != nil {
		m.submission.Apply(*change)
	}
	return cmd
}

// submit runs the create protocol against the current draft snapshot.
func (m *Model) submit() tea.Cmd {
	draft := m.submission.Draft()
	outcome, err := m.submission.Begin(draft)
	switch outcome {
	case landing.OutcomeIgnored, landing.OutcomeBusy:
		return nil
	case landing.OutcomeInvalid:
		slog.Info("draft rejected", "error", err)
		return m.raise(err.Error())
	}

	slog.Info("creating short link", "url", draft.URL, "hash", draft.Hash)
	links := m.links
	return tea.Batch(
		func() tea.Msg {
			res, err := links.Create(context.Background(), draft)
			return linkCreatedMsg{draft: draft, result: res, err: err}
		},
		m.spinner.Tick,
	)
}

func (m *Model) settle(msg linkCreatedMsg) []tea.Cmd {
	if err := m.submission.Settle(msg.result, msg.err); err != nil {
		var remote *services.RemoteError
		if errors.As(err, &remote) {
			slog.Warn("shortener rejected link", "url", msg.draft.URL, "message", remote.Message)
		} else {
			slog.Error("create request failed", "url", msg.draft.URL, "error", err)
		}
		return []tea.Cmd{m.raise(err.Error())}
	}

	res, _ := m.submission.Result()
	slog.Info("short link created", "url", msg.draft.URL, "short", res.ShortLink())
	m.confirm = newConfirmModel(res, m.mdStyle, m.cardWidth()-8)
	m.resultSeq++

	cmds := []tea.Cmd{m.form.reset(), notifyCmd("info", "Short link created")}
	if m.previews != nil {
		previews := m.previews
		target := msg.draft.URL
		seq := m.resultSeq
		cmds = append(cmds, func() tea.Msg {
			p, err := previews.Preview(context.Background(), target)
			return previewLoadedMsg{seq: seq, preview: p, err: err}
		})
	}
	return cmds
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	res, _ := m.submission.Result()
	switch msg.String() {
	case "n", "esc", "enter":
		m.submission.DismissResult()
		m.confirm = confirmModel{}
		return m.form.focusField(landing.FieldURL)
	case "c":
		if link := res.ShortLink(); link != "" {
			return copyToClipboard(link)
		}
	case "o":
		if link := res.ShortLink(); link != "" {
			return openURL(link)
		}
	}
	return nil
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			slog.Warn("clipboard unavailable", "error", err)
			return notifyMsg{level: "warning", message: "Clipboard unavailable"}
		}
		return notifyMsg{level: "info", message: "Copied " + text}
	}
}

func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.OpenURL(url); err != nil {
			slog.Warn("failed to open browser", "url", url, "error", err)
			return notifyMsg{level: "warning", message: "Could not open browser"}
		}
		return nil
	}
}

// refreshLogViewport updates the log viewport content from the in-memory sink
// and scrolls to the most-recent entry.
func (m *Model) refreshLogViewport() {
	if !m.logReady || m.logSink == nil {
		return
	}
	m.logViewport.SetContent(m.logSink.Render(m.logViewport.Width))
	m.logViewport.GotoBottom()
}

func (m Model) cardWidth() int {
	w := m.width / 2
	if w < 44 {
		w = 44
	}
	if w > 80 {
		w = 80
	}
	return w
}
