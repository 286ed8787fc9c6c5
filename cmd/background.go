package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"mccwk.com/shortener/internal/cookies"
	"mccwk.com/shortener/internal/landing"
	"mccwk.com/shortener/internal/services"
)

var backgroundOpen bool

var backgroundCmd = &cobra.Command{
	Use:   "background",
	Short: "Resolve the landing page background",
	Long: `Resolve the background photo the way the landing page does: use the
cached cookie when present, otherwise fetch a random photo and cache it
until the same time tomorrow. Provider failures leave the fallback color.`,
	Args: cobra.NoArgs,
	RunE: runBackground,
}

func init() {
	backgroundCmd.Flags().BoolVar(&backgroundOpen, "open", false, "Open the photographer's page in a browser")
	rootCmd.AddCommand(backgroundCmd)
}

func runBackground(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s := loadSettings()

	store, closeStore := openCookieStore(ctx, s)
	defer closeStore()

	var r landing.Resolver
	r.Mount(services.NewPalette(landing.DefaultColor, uint64(time.Now().UnixNano())))
	if r.Begin() {
		if msg := resolveBackground(ctx, &r, store, services.NewUnsplash(s.APIURL, s.PhotoPath)); msg != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
	}

	out := cmd.OutOrStdout()
	st := r.State()
	if st.Kind != landing.BackgroundCachedPhoto {
		fmt.Fprintf(out, "Background: %s\n", st.Color)
		return nil
	}

	fmt.Fprintf(out, "Photo by %s on Unsplash\n", st.Photo.Author.Name)
	fmt.Fprintln(out, st.Photo.URL)
	fmt.Fprintln(out, st.Photo.Author.ProfileURL())
	fmt.Fprintln(out, landing.ProviderHomeURL)

	if backgroundOpen {
		return browser.OpenURL(st.Photo.Author.ProfileURL())
	}
	return nil
}

// resolveBackground runs one resolution and returns the banner text for a
// provider failure, if any.
func resolveBackground(ctx context.Context, r *landing.Resolver, store cookies.Store, photos *services.Unsplash) string {
	p, ok, err := cookies.LoadPhoto(ctx, store)
	if err != nil {
		slog.Warn("photo cookie unreadable", "error", err)
	}
	if ok {
		r.AdoptCached(p)
		slog.Debug("background from cookie", "url", p.URL)
		return ""
	}

	p, err = photos.RandomPhoto(ctx)
	if err != nil {
		return r.Fail(err)
	}
	c := r.AdoptFetched(p, time.Now())
	if err := cookies.SavePhoto(ctx, store, c); err != nil {
		slog.Warn("failed to cache background photo", "error", err)
	}
	return ""
}
