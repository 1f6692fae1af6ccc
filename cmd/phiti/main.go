package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeisey/phiti/internal/config"
	"github.com/jeisey/phiti/internal/feed"
	"github.com/jeisey/phiti/internal/logging"
	"github.com/jeisey/phiti/internal/session"
	"github.com/jeisey/phiti/internal/share"
	"github.com/jeisey/phiti/internal/tui"
)

var (
	// CLI flags
	dataURLFlag string
	refURLFlag  string
	sharedFlag  string
	batchFlag   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "phiti",
		Short: "Terminal explorer for Philadelphia graffiti-removal requests",
		Long: `phiti is a terminal explorer for Philadelphia's graffiti-removal
service requests.

It loads the city's published CSV feed, joins each request's zip code to its
area, and lets you filter, search, page through and share the request photos.

Configuration (environment or .env file):
  PHITI_DATA_URL          primary feed location
  PHITI_REF_URL           zip→area reference feed location
  PHITI_FETCH_TIMEOUT_MS  per-feed fetch timeout
  PHITI_BATCH_SIZE        gallery page size
  PHITI_LOG_FILE          log destination (logging disabled when unset)`,
		RunE: run,
	}

	// Define CLI flags
	rootCmd.Flags().StringVar(&dataURLFlag, "data-url", "", "Primary feed URL. Overrides PHITI_DATA_URL.")
	rootCmd.Flags().StringVar(&refURLFlag, "ref-url", "", "Reference feed URL. Overrides PHITI_REF_URL.")
	rootCmd.Flags().StringVar(&sharedFlag, "id", "", "Record id or share link to open on start.")
	rootCmd.Flags().IntVar(&batchFlag, "batch", 0, "Gallery page size. Overrides PHITI_BATCH_SIZE.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if dataURLFlag != "" {
		cfg.DataURL = dataURLFlag
	}
	if refURLFlag != "" {
		cfg.RefURL = refURLFlag
	}
	if batchFlag > 0 {
		cfg.BatchSize = batchFlag
	}

	logger, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Accept either a bare record id or a pasted share link.
	sharedID := sharedFlag
	if id := share.ParseLocator(sharedFlag); id != "" {
		sharedID = id
	}

	client := feed.New(cfg.DataURL, cfg.RefURL, cfg.FetchTimeout)
	sess := session.New(client, logger)
	ctx := context.Background()

	app := tui.NewAppModel(ctx, sess, client, tui.Options{
		SharedID:     sharedID,
		BatchSize:    cfg.BatchSize,
		ShareBaseURL: cfg.ShareBaseURL,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}
