package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"mccwk.com/shortener/internal/cookies"
	"mccwk.com/shortener/internal/database"
	"mccwk.com/shortener/internal/landing"
	"mccwk.com/shortener/internal/logging"
	"mccwk.com/shortener/internal/services"
	"mccwk.com/shortener/internal/tui"
)

const VERSION = "1.0.0"

var (
	debug   bool
	apiURL  string
	noCache bool
)

var rootCmd = &cobra.Command{
	Use:     "shortener",
	Short:   "URL shortener landing page",
	Version: VERSION,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: runTUI,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Display debugging output")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base URL of the shortener app (overrides SHORTENER_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Keep the background photo cookie in memory only")
}

func logLevel() slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func setupLogging() {
	if os.Getenv("MODE") == "production" {
		logger := slog.New(slog.NewJSONHandler(os.Stderr,
			&slog.HandlerOptions{
				Level: logLevel(),
			}))
		slog.SetDefault(logger)
	} else {
		logger := slog.New(tint.NewHandler(os.Stderr,
			&tint.Options{
				Level:      logLevel(),
				TimeFormat: time.Kitchen,
			}))
		slog.SetDefault(logger)
	}
}

// openCookieStore returns the persisted store, or an in-memory one when
// --no-cache is set or the database cannot be opened.
func openCookieStore(ctx context.Context, s settings) (cookies.Store, func()) {
	if noCache {
		return cookies.NewMemoryStore(), func() {}
	}
	db, err := database.New(ctx, s.DBPath)
	if err != nil {
		slog.Warn("cookie database unavailable, using memory", "path", s.DBPath, "error", err)
		return cookies.NewMemoryStore(), func() {}
	}
	return cookies.NewSQLiteStore(db), func() { db.Close() }
}

func runTUI(cmd *cobra.Command, args []string) error {
	s := loadSettings()

	// The alt screen owns stdout; logs go to the in-app panel.
	sink := logging.NewMemorySink(logging.DefaultMaxEntries, logLevel())
	slog.SetDefault(slog.New(sink))

	store, closeStore := openCookieStore(cmd.Context(), s)
	defer closeStore()

	slog.Info("starting", "version", VERSION, "api", s.APIURL)

	model := tui.NewModel(tui.Deps{
		Links:    services.NewShortener(s.APIURL, s.CreatePath),
		Photos:   services.NewUnsplash(s.APIURL, s.PhotoPath),
		Cookies:  store,
		Colors:   services.NewPalette(landing.DefaultColor, uint64(time.Now().UnixNano())),
		Previews: services.NewPreviewer(services.NewFetcher(), services.NewExtractor()),
		LogSink:  sink,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
