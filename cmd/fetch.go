package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/logger"
	"github.com/pable/go-nhl-metrics/internal/nhl"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

// fetch command flags.
var (
	// fetchSeason is the season to download, e.g. "20242025".
	fetchSeason string
	// fetchLimit caps the number of skaters, taken by points.
	fetchLimit int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a season's skater stats into the database",
	Long: `Fetches the regular-season skater summary from the NHL stats API, sorted
by points, and replaces any stored rows for that season.

Examples:
  # Current season, top 200 by points
  nhlmetrics fetch

  # A past season, top 300
  nhlmetrics fetch --season 20222023 --limit 300`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSeason, "season", "", "season id, e.g. 20242025 (default: current season)")
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "number of skaters to fetch (default from config)")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	season := fetchSeason
	if season == "" {
		season = nhl.SeasonID(time.Now())
	}
	limit := fetchLimit
	if limit <= 0 {
		limit = cfg.FetchLimit
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	client := nhl.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout())
	n, err := doFetch(cmd, client, db, season, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Stored %d skaters for season %s\n", n, season)
	return nil
}

// doFetch downloads one season and stores it, returning the number of rows.
func doFetch(cmd *cobra.Command, client *nhl.Client, db *storage.DB, season string, limit int) (int, error) {
	ctx := cmd.Context()
	log := appLog.Named("fetch")
	log.Info(ctx, "fetching skater summary", logger.String("season", season), logger.Int("limit", limit))

	sum, err := client.SkaterSummary(ctx, season, limit)
	if err != nil {
		return 0, fmt.Errorf("fetch season %s: %w", season, err)
	}
	if len(sum.Data) == 0 {
		log.Warn(ctx, "no skaters returned", logger.String("season", season))
	}
	records := sum.Records()
	if err := db.ReplaceSeason(season, records, time.Now()); err != nil {
		return 0, fmt.Errorf("store season %s: %w", season, err)
	}
	log.Debug(ctx, "season stored", logger.Int("rows", len(records)), logger.Int("total", sum.Total))
	return len(records), nil
}
