package cookies

import (
	"context"
	"encoding/json"
	"log/slog"

	"mccwk.com/shortener/internal/landing"
)

// LoadPhoto returns the cached background photo. A malformed entry is
// treated as a miss so the caller falls through to the provider.
func LoadPhoto(ctx context.Context, store Store) (landing.Photo, bool, error) {
	raw, ok, err := store.Get(ctx, landing.CookieName)
	if err != nil || !ok {
		return landing.Photo{}, false, err
	}

	var p landing.Photo
	if err := json.Unmarshal([]byte(raw), &p); err != nil || !p.Valid() {
		slog.Warn("ignoring malformed photo cookie", "name", landing.CookieName, "error", err)
		return landing.Photo{}, false, nil
	}
	return p, true, nil
}

// SavePhoto persists c as JSON under its name.
func SavePhoto(ctx context.Context, store Store, c landing.Cookie) error {
	raw, err := json.Marshal(c.Value)
	if err != nil {
		return err
	}
	return store.Set(ctx, c.Name, string(raw), c.Expires)
}
