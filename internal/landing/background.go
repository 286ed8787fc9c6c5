package landing

import (
	"fmt"
	"time"
)

// CookieName is the key the resolved photo is persisted under.
const CookieName = "unsplash"

// DefaultColor is shown until a ColorSource says otherwise.
const DefaultColor = "#334155"

// ProviderLabel prefixes every background error shown to the user.
const ProviderLabel = "UNSPLASH"

type BackgroundKind int

const (
	BackgroundNone BackgroundKind = iota
	BackgroundSolidColor
	BackgroundCachedPhoto
)

func (k BackgroundKind) String() string {
	switch k {
	case BackgroundNone:
		return "none"
	case BackgroundSolidColor:
		return "solid-color"
	case BackgroundCachedPhoto:
		return "cached-photo"
	}
	return "unknown"
}

type Author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ProviderHomeURL is the provider's landing page with referral parameters.
const ProviderHomeURL = "https://unsplash.com/?utm_source=URL_shortener&utm_medium=referral"

// ProfileURL is the photographer's page with referral parameters.
func (a Author) ProfileURL() string {
	return "https://unsplash.com/@" + a.Username + "?utm_source=URL_shortener&utm_medium=referral"
}

// Photo is the cached descriptor of a background photograph.
type Photo struct {
	URL    string `json:"url"`
	Author Author `json:"author"`
}

// Valid reports whether p can be shown.
func (p Photo) Valid() bool { return p.URL != "" }

// BackgroundState is what the page container is decorated with. Color is kept
// after a photo is adopted so the view always has something to paint.
type BackgroundState struct {
	Kind  BackgroundKind
	Color string
	Photo Photo
}

// ColorSource derives the fallback background color.
type ColorSource interface {
	Derive() string
}

// Cookie is a persisted photo entry with an absolute expiry.
type Cookie struct {
	Name    string
	Value   Photo
	Expires time.Time
}

// PhotoExpiry is "tomorrow" relative to now.
func PhotoExpiry(now time.Time) time.Time {
	return now.AddDate(0, 0, 1)
}

type resolvePhase int

const (
	phaseIdle resolvePhase = iota
	phaseInFlight
	phaseDone
)

// Resolver picks the page background once per mount: cookie, then provider,
// falling back to a solid color.
type Resolver struct {
	state BackgroundState
	phase resolvePhase
}

// Mount paints the fallback color. It never downgrades an adopted photo.
func (r *Resolver) Mount(colors ColorSource) BackgroundState {
	color := DefaultColor
	if colors != nil {
		if c := colors.Derive(); c != "" {
			color = c
		}
	}
	r.state.Color = color
	if r.state.Kind == BackgroundNone {
		r.state.Kind = BackgroundSolidColor
	}
	return r.state
}

// Begin reports whether the caller should start resolving. It returns true at
// most once per mount.
func (r *Resolver) Begin() bool {
	if r.phase != phaseIdle || r.state.Kind == BackgroundCachedPhoto {
		return false
	}
	r.phase = phaseInFlight
	return true
}

// AdoptCached takes a photo found in the cookie store.
func (r *Resolver) AdoptCached(p Photo) BackgroundState {
	r.adopt(p)
	return r.state
}

// AdoptFetched takes a photo from the provider and returns the cookie that
// must be persisted for it.
func (r *Resolver) AdoptFetched(p Photo, now time.Time) Cookie {
	r.adopt(p)
	return Cookie{Name: CookieName, Value: p, Expires: PhotoExpiry(now)}
}

func (r *Resolver) adopt(p Photo) {
	r.phase = phaseDone
	r.state.Kind = BackgroundCachedPhoto
	r.state.Photo = p
}

// Fail ends resolution for this mount, keeping the fallback color, and
// returns the text to show in the error banner.
func (r *Resolver) Fail(err error) string {
	r.phase = phaseDone
	return fmt.Sprintf("%s %v", ProviderLabel, err)
}

func (r *Resolver) State() BackgroundState { return r.state }

// Resolved reports whether resolution has finished, successfully or not.
func (r *Resolver) Resolved() bool { return r.phase == phaseDone }
