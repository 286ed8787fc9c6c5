package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mccwk.com/shortener/internal/landing"
	"mccwk.com/shortener/internal/services"
)

var (
	shortenHash string
	shortenJSON bool
)

var shortenCmd = &cobra.Command{
	Use:   "shorten <url>",
	Short: "Create a short link from the command line",
	Long: `Validate a URL (and optional custom hash) the same way the form does,
then ask the shortener app to create the link.

The created payload is printed as returned by the server with --json;
otherwise only the short link is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runShorten,
}

func init() {
	shortenCmd.Flags().StringVar(&shortenHash, "hash", "", "Custom short hash")
	shortenCmd.Flags().BoolVar(&shortenJSON, "json", false, "Print the full response payload")
	rootCmd.AddCommand(shortenCmd)
}

func runShorten(cmd *cobra.Command, args []string) error {
	s := loadSettings()

	var sub landing.Submission
	sub.UpdateField(landing.FieldURL, args[0])
	draft := sub.UpdateField(landing.FieldHash, shortenHash)

	outcome, err := sub.Begin(draft)
	switch outcome {
	case landing.OutcomeIgnored:
		return errors.New("a URL is required")
	case landing.OutcomeInvalid:
		return err
	}

	slog.Debug("creating short link", "api", s.APIURL, "url", draft.URL, "hash", draft.Hash)
	res, err := services.NewShortener(s.APIURL, s.CreatePath).Create(cmd.Context(), draft)
	if err := sub.Settle(res, err); err != nil {
		var remote *services.RemoteError
		if errors.As(err, &remote) {
			return fmt.Errorf("shortener rejected the link: %s", remote.Message)
		}
		return err
	}

	res, _ = sub.Result()
	if shortenJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if link := res.ShortLink(); link != "" {
		fmt.Fprintln(cmd.OutOrStdout(), link)
		return nil
	}
	slog.Warn("response has no short link field; use --json to inspect it")
	return nil
}
