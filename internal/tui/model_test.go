package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mccwk.com/shortener/internal/cookies"
	"mccwk.com/shortener/internal/landing"
	"mccwk.com/shortener/internal/services"
)

type fakeLinks struct {
	mu     sync.Mutex
	drafts []landing.DraftLink
	result landing.Result
	err    error
}

func (f *fakeLinks) Create(_ context.Context, d landing.DraftLink) (landing.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, d)
	return f.result, f.err
}

func (f *fakeLinks) calls() []landing.DraftLink {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]landing.DraftLink(nil), f.drafts...)
}

type fakePhotos struct {
	n     atomic.Int32
	photo landing.Photo
	err   error
}

func (f *fakePhotos) RandomPhoto(context.Context) (landing.Photo, error) {
	f.n.Add(1)
	return f.photo, f.err
}

type fakePreviews struct {
	preview services.Preview
}

func (f fakePreviews) Preview(context.Context, string) (services.Preview, error) {
	return f.preview, nil
}

type setCall struct {
	name, value string
	expires     time.Time
}

// recordingStore wraps a MemoryStore and remembers writes.
type recordingStore struct {
	*cookies.MemoryStore
	mu   sync.Mutex
	sets []setCall
}

func (s *recordingStore) Set(ctx context.Context, name, value string, expires time.Time) error {
	s.mu.Lock()
	s.sets = append(s.sets, setCall{name: name, value: value, expires: expires})
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, name, value, expires)
}

type fixedColor string

func (c fixedColor) Derive() string { return string(c) }

type timer struct {
	d   time.Duration
	msg tea.Msg
}

type harness struct {
	t      *testing.T
	m      Model
	timers []timer
}

var testNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newHarness(t *testing.T, d Deps) *harness {
	t.Helper()
	if d.Colors == nil {
		d.Colors = fixedColor("#223344")
	}
	d.MarkdownStyle = "notty"
	d.Now = func() time.Time { return testNow }

	h := &harness{t: t}
	h.m = NewModel(d)
	h.m.after = func(dur time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
		h.timers = append(h.timers, timer{d: dur, msg: fn(testNow.Add(dur))})
		return nil
	}
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// collect runs cmd and returns the messages it produces. Commands that block
// (ticks, blinks) are abandoned.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// send delivers msg and everything it leads to, until the model settles.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		require.Less(h.t, i, 200, "message loop did not settle")
		next, cmd := h.m.Update(queue[0])
		h.m = next.(Model)
		queue = append(queue[1:], collect(cmd)...)
	}
}

func (h *harness) init() {
	h.t.Helper()
	for _, msg := range collect(h.m.Init()) {
		h.send(msg)
	}
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(k tea.KeyType) {
	h.send(tea.KeyMsg{Type: k})
}

func (h *harness) bannerText() (string, bool) {
	e, ok := h.m.banner.Current()
	return e.Text, ok
}

// fireTimers delivers every scheduled dismissal, oldest first.
func (h *harness) fireTimers() {
	pending := h.timers
	h.timers = nil
	for _, tm := range pending {
		h.send(tm.msg)
	}
}

func TestFieldEditsKeepLatestValues(t *testing.T) {
	h := newHarness(t, Deps{Links: &fakeLinks{}})

	h.typeText("https://example.co")
	h.press(tea.KeyTab)
	h.typeText("abc")
	h.press(tea.KeyShiftTab)
	h.typeText("m")
	h.press(tea.KeyTab)
	h.press(tea.KeyBackspace)

	assert.Equal(t, landing.DraftLink{URL: "https://example.com", Hash: "ab"}, h.m.submission.Draft())
}

func TestSubmitEmptyURLDoesNothing(t *testing.T) {
	links := &fakeLinks{}
	h := newHarness(t, Deps{Links: links})

	h.press(tea.KeyTab)
	h.typeText("abc")
	h.press(tea.KeyEnter)

	assert.Empty(t, links.calls())
	assert.False(t, h.m.submission.Loading())
	_, visible := h.bannerText()
	assert.False(t, visible)
}

func TestSubmitWithSpacesIsRejectedLocally(t *testing.T) {
	links := &fakeLinks{}
	h := newHarness(t, Deps{Links: links})

	h.typeText("bad url")
	h.press(tea.KeyEnter)

	assert.Empty(t, links.calls())
	assert.False(t, h.m.submission.Loading())
	text, visible := h.bannerText()
	require.True(t, visible)
	assert.Equal(t, "Remove spaces", text)
	assert.Contains(t, h.m.View(), "Remove spaces")

	require.Len(t, h.timers, 1)
	assert.Equal(t, 3000*time.Millisecond, h.timers[0].d)

	h.fireTimers()
	_, visible = h.bannerText()
	assert.False(t, visible)
	assert.NotContains(t, h.m.View(), "Remove spaces")
}

func TestSubmitSuccessShowsConfirmation(t *testing.T) {
	payload := landing.Result{"status": "ok", "shortUrl": "https://short.ly/abc"}
	links := &fakeLinks{result: payload}
	h := newHarness(t, Deps{Links: links})

	h.typeText("https://example.com")
	h.press(tea.KeyTab)
	h.typeText("abc")
	h.press(tea.KeyEnter)

	assert.Equal(t, []landing.DraftLink{{URL: "https://example.com", Hash: "abc"}}, links.calls())

	res, ok := h.m.submission.Result()
	require.True(t, ok)
	assert.Equal(t, payload, res)
	assert.Equal(t, payload, h.m.confirm.result)
	assert.Equal(t, landing.DraftLink{}, h.m.submission.Draft())
	assert.False(t, h.m.submission.Loading())
	assert.Equal(t, landing.ModeResult, h.m.submission.Mode())
	assert.Empty(t, h.m.form.url.Value())
	assert.Empty(t, h.m.form.hash.Value())
	assert.Contains(t, h.m.View(), "https://short.ly/abc")
}

func TestDismissConfirmationReturnsToForm(t *testing.T) {
	links := &fakeLinks{result: landing.Result{"shortUrl": "https://short.ly/x"}}
	h := newHarness(t, Deps{Links: links})

	h.typeText("https://example.com")
	h.press(tea.KeyEnter)
	require.Equal(t, landing.ModeResult, h.m.submission.Mode())

	h.typeText("n")
	assert.Equal(t, landing.ModeEditing, h.m.submission.Mode())
	assert.Equal(t, landing.FieldURL, h.m.form.focus)
	assert.Contains(t, h.m.View(), "Create")
}

func TestSubmitRemoteErrorKeepsDraft(t *testing.T) {
	links := &fakeLinks{err: &services.RemoteError{Message: "Hash already exists"}}
	h := newHarness(t, Deps{Links: links})

	h.typeText("https://example.com")
	h.press(tea.KeyTab)
	h.typeText("taken")
	h.press(tea.KeyEnter)

	require.Len(t, links.calls(), 1)
	assert.False(t, h.m.submission.Loading())
	assert.Equal(t, landing.ModeEditing, h.m.submission.Mode())
	assert.Equal(t, landing.DraftLink{URL: "https://example.com", Hash: "taken"}, h.m.submission.Draft())
	assert.Equal(t, "taken", h.m.form.hash.Value())

	text, visible := h.bannerText()
	require.True(t, visible)
	assert.Equal(t, "Hash already exists", text)
}

func TestSubmitTransportErrorIsSurfaced(t *testing.T) {
	links := &fakeLinks{err: errors.New("failed to reach shortener: connection refused")}
	h := newHarness(t, Deps{Links: links})

	h.typeText("https://example.com")
	h.press(tea.KeyEnter)

	text, visible := h.bannerText()
	require.True(t, visible)
	assert.Equal(t, "failed to reach shortener: connection refused", text)
	assert.False(t, h.m.submission.Loading())

	h.typeText("/retry")
	h.press(tea.KeyEnter)
	assert.Len(t, links.calls(), 2, "form stays usable")
}

func TestLoadingGatesResubmission(t *testing.T) {
	links := &fakeLinks{}
	h := newHarness(t, Deps{Links: links})
	h.typeText("https://example.com")

	// Deliver enter without running the returned request.
	next, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	h.m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, h.m.submission.Loading())
	assert.Equal(t, landing.ModeSubmitting, h.m.submission.Mode())

	next, _ = h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	h.m = next.(Model)
	assert.Empty(t, links.calls())
	assert.True(t, h.m.submission.Loading())
}

func TestNewerErrorSurvivesOlderTimer(t *testing.T) {
	links := &fakeLinks{err: &services.RemoteError{Message: "server says no"}}
	h := newHarness(t, Deps{Links: links})

	h.typeText("bad url")
	h.press(tea.KeyEnter)
	require.Len(t, h.timers, 1)
	first := h.timers[0]

	h.press(tea.KeyCtrlA)
	h.send(tea.KeyMsg{Type: tea.KeyCtrlK})
	h.typeText("https://example.com")
	h.press(tea.KeyEnter)
	require.Len(t, h.timers, 2)

	h.send(first.msg)
	text, visible := h.bannerText()
	require.True(t, visible)
	assert.Equal(t, "server says no", text)

	h.send(h.timers[1].msg)
	_, visible = h.bannerText()
	assert.False(t, visible)
}

func TestBackgroundUsesCookieWithoutFetching(t *testing.T) {
	store := cookies.NewMemoryStore()
	cached := landing.Photo{URL: "https://images.unsplash.com/cached", Author: landing.Author{Name: "Ada", Username: "ada"}}
	require.NoError(t, cookies.SavePhoto(context.Background(), store, landing.Cookie{
		Name: landing.CookieName, Value: cached, Expires: time.Now().Add(time.Hour),
	}))
	photos := &fakePhotos{}

	h := newHarness(t, Deps{Links: &fakeLinks{}, Photos: photos, Cookies: store})
	assert.Equal(t, landing.BackgroundSolidColor, h.m.resolver.State().Kind)
	h.init()

	assert.Zero(t, photos.n.Load())
	st := h.m.resolver.State()
	assert.Equal(t, landing.BackgroundCachedPhoto, st.Kind)
	assert.Equal(t, cached, st.Photo)
	assert.Contains(t, h.m.View(), "Ada")
}

func TestBackgroundFetchesAndPersists(t *testing.T) {
	store := &recordingStore{MemoryStore: cookies.NewMemoryStore()}
	fetched := landing.Photo{URL: "https://images.unsplash.com/fresh", Author: landing.Author{Name: "Grace", Username: "grace"}}
	photos := &fakePhotos{photo: fetched}

	h := newHarness(t, Deps{Links: &fakeLinks{}, Photos: photos, Cookies: store})
	h.init()

	assert.Equal(t, int32(1), photos.n.Load())
	assert.Equal(t, fetched, h.m.resolver.State().Photo)

	require.Len(t, store.sets, 1)
	assert.Equal(t, landing.CookieName, store.sets[0].name)
	assert.Equal(t, testNow.AddDate(0, 0, 1), store.sets[0].expires)
	assert.JSONEq(t, `{"url":"https://images.unsplash.com/fresh","author":{"name":"Grace","username":"grace"}}`, store.sets[0].value)

	h.send(mountMsg{})
	assert.Equal(t, int32(1), photos.n.Load(), "mount is one-shot")
}

func TestBackgroundUnauthorizedKeepsFallback(t *testing.T) {
	photos := &fakePhotos{err: &services.ProviderError{Status: 401, Message: "OAuth error: The access token is invalid"}}
	store := &recordingStore{MemoryStore: cookies.NewMemoryStore()}

	h := newHarness(t, Deps{Links: &fakeLinks{}, Photos: photos, Cookies: store, Colors: fixedColor("#102030")})
	h.init()

	st := h.m.resolver.State()
	assert.Equal(t, landing.BackgroundSolidColor, st.Kind)
	assert.Equal(t, "#102030", st.Color)
	assert.Empty(t, store.sets)

	text, visible := h.bannerText()
	require.True(t, visible)
	assert.Equal(t, "UNSPLASH OAuth error: The access token is invalid", text)

	require.Len(t, h.timers, 1)
	assert.Equal(t, landing.ErrorLifetime, h.timers[0].d)
	h.fireTimers()
	_, visible = h.bannerText()
	assert.False(t, visible)

	h.send(mountMsg{})
	assert.Equal(t, int32(1), photos.n.Load(), "no retry")
}

func TestBackgroundWithoutProviderStaysSolid(t *testing.T) {
	h := newHarness(t, Deps{Links: &fakeLinks{}})
	h.init()

	assert.Equal(t, landing.BackgroundSolidColor, h.m.resolver.State().Kind)
	_, visible := h.bannerText()
	assert.False(t, visible)
}

func TestPreviewAttachesToCurrentResult(t *testing.T) {
	links := &fakeLinks{result: landing.Result{"shortUrl": "https://short.ly/p"}}
	previews := fakePreviews{preview: services.Preview{Title: "Example Domain", Description: "For use in examples."}}
	h := newHarness(t, Deps{Links: links, Previews: previews})

	h.typeText("https://example.com")
	h.press(tea.KeyEnter)

	require.NotNil(t, h.m.confirm.preview)
	assert.Equal(t, "Example Domain", h.m.confirm.preview.Title)
	assert.Contains(t, h.m.View(), "Example Domain")

	h.send(previewLoadedMsg{seq: h.m.resultSeq - 1, preview: services.Preview{Title: "stale"}})
	assert.Equal(t, "Example Domain", h.m.confirm.preview.Title)
}

func TestNothingChangesAfterQuit(t *testing.T) {
	links := &fakeLinks{}
	h := newHarness(t, Deps{Links: links})
	h.typeText("https://example.com")

	next, _ := h.m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	h.m = next.(Model)
	require.True(t, h.m.submission.Loading())

	next, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	h.m = next.(Model)
	require.NotNil(t, cmd)

	h.send(linkCreatedMsg{draft: h.m.submission.Draft(), result: landing.Result{"shortUrl": "late"}})
	_, ok := h.m.submission.Result()
	assert.False(t, ok)
}
