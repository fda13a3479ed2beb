package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/report"
)

var (
	shootingSeason string
	shootingJSON   bool
)

var shootingCmd = &cobra.Command{
	Use:   "shooting",
	Short: "Shot volume vs shooting percentage, with scoring profiles",
	Args:  cobra.NoArgs,
	RunE:  runShooting,
}

func init() {
	shootingCmd.Flags().StringVar(&shootingSeason, "season", "", "season id (default: newest stored)")
	shootingCmd.Flags().BoolVar(&shootingJSON, "json", false, "print the result as JSON")
}

func runShooting(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	season, err := resolveSeason(db, shootingSeason)
	if err != nil {
		return err
	}
	records, err := db.GetSkaterRecords(season)
	if err != nil {
		return fmt.Errorf("load season %s: %w", season, err)
	}
	res, err := analysis.Shooting(records, cfg.MinGamesPlayed)
	if err != nil {
		return fmt.Errorf("shooting analysis for season %s: %w", season, err)
	}

	if shootingJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(os.Stdout, "\nSeason: %s", season)
	report.PrintShooting(os.Stdout, res)
	return nil
}
