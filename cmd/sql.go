package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the stats database",
	Long: `Run an arbitrary SQL query against the stats database and print results as a table.

Schema overview:
  seasons(season_id, fetched_at, player_count)
  skater_stats(season_id, player_id, name, team, games_played, goals, assists,
    points, shots, plus_minus, penalty_minutes, pp_points, sh_points,
    shooting_pct, game_winning_goals)
  analysis_runs(id, season_id, created_at, seed, features, clusters, components,
    players, iterations, converged)
  analysis_points(run_id, player_id, name, team, x, y, cluster_id)
  analysis_loadings(run_id, component, rank, feature, weight)

Note: shooting_pct is a fraction (0.125 = 12.5%).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRawTable(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
