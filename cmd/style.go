package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/logger"
	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var (
	styleSeason   string
	styleK        int
	styleSeed     int64
	styleMinGames float64
	styleFeatures []string
	styleJSON     bool
	styleSave     bool
)

var styleCmd = &cobra.Command{
	Use:   "style",
	Short: "Group a season's skaters by playing style (PCA + K-Means)",
	Long: `Builds per-player ratio features, z-scores them, projects them onto the first
principal components and clusters the projected points.

Examples:
  nhlmetrics style
  nhlmetrics style --season 20232024 --k 5 --seed 42
  nhlmetrics style --features goalsPerShot,pointsPerGame,pimPerGame --json
  nhlmetrics style --save`,
	Args: cobra.NoArgs,
	RunE: runStyle,
}

func init() {
	styleCmd.Flags().StringVar(&styleSeason, "season", "", "season id (default: newest stored)")
	styleCmd.Flags().IntVar(&styleK, "k", 0, "number of clusters (default from config)")
	styleCmd.Flags().Int64Var(&styleSeed, "seed", 0, "random seed for PCA initialisation (default from config)")
	styleCmd.Flags().Float64Var(&styleMinGames, "min-games", 0, "keep players with more games than this (default from config)")
	styleCmd.Flags().StringSliceVar(&styleFeatures, "features", nil, "comma-separated feature list (default from config)")
	styleCmd.Flags().BoolVar(&styleJSON, "json", false, "print the result as JSON")
	styleCmd.Flags().BoolVar(&styleSave, "save", false, "store the run in the database")
}

func runStyle(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	season, err := resolveSeason(db, styleSeason)
	if err != nil {
		return err
	}

	opts := analysisOptions()
	if cmd.Flags().Changed("k") {
		opts.Clusters = styleK
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = styleSeed
	}
	if cmd.Flags().Changed("min-games") {
		opts.MinGamesPlayed = styleMinGames
	}
	if len(styleFeatures) > 0 {
		opts.Features = styleFeatures
	}

	res, err := analyzeSeason(cmd, db, season, opts)
	if err != nil {
		return err
	}

	if styleSave {
		run, err := saveRun(db, season, opts, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	}

	if styleJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	report.PrintRunHeader(os.Stdout, season, res)
	fmt.Fprintf(os.Stdout, "Features: %s\n", strings.Join(res.Features, ", "))
	report.PrintSection(os.Stdout, "Component loadings")
	report.PrintLoadings(os.Stdout, res.Loadings)
	report.PrintSection(os.Stdout, "Clusters")
	report.PrintClusters(os.Stdout, res)
	report.PrintSection(os.Stdout, "Players")
	report.PrintPoints(os.Stdout, res.Points)
	return nil
}

// analyzeSeason loads a stored season and runs the pipeline over it.
func analyzeSeason(cmd *cobra.Command, db *storage.DB, season string, opts analysis.Options) (*analysis.Result, error) {
	ctx := cmd.Context()
	log := appLog.Named("style")

	records, err := db.GetSkaterRecords(season)
	if err != nil {
		return nil, fmt.Errorf("load season %s: %w", season, err)
	}
	start := time.Now()
	res, err := analysis.Run(records, opts)
	if err != nil {
		if analysis.IsDataError(err) {
			log.Warn(ctx, "analysis unavailable", logger.String("season", season), logger.Error(err))
			return nil, fmt.Errorf("analysis unavailable for season %s: %w", season, err)
		}
		return nil, fmt.Errorf("analyze season %s: %w", season, err)
	}
	log.Info(ctx, "analysis complete",
		logger.String("season", season),
		logger.Int("players", res.Players),
		logger.Int("kmeans_iterations", res.Clusters.Iterations),
		logger.Bool("converged", res.Clusters.Converged),
		logger.Any("elapsed", time.Since(start)),
	)
	if !res.Clusters.Converged {
		log.Warn(ctx, "k-means stopped at the iteration cap", logger.Int("iterations", res.Clusters.Iterations))
	}
	return res, nil
}

// saveRun stores a pipeline result as an analysis run. Only the first two
// coordinates of each point are kept.
func saveRun(db *storage.DB, season string, opts analysis.Options, res *analysis.Result) (model.AnalysisRun, error) {
	run := model.AnalysisRun{
		SeasonID:   season,
		Seed:       opts.Seed,
		Features:   res.Features,
		Clusters:   res.Clusters.K,
		Components: len(res.Components),
		Players:    res.Players,
		Iterations: res.Clusters.Iterations,
		Converged:  res.Clusters.Converged,
	}
	points := make([]model.AnalysisPoint, len(res.Points))
	for i, p := range res.Points {
		points[i] = model.AnalysisPoint{
			PlayerID:  p.PlayerID,
			Name:      p.Name,
			Team:      p.Team,
			X:         coordAt(p.Coordinates, 0),
			Y:         coordAt(p.Coordinates, 1),
			ClusterID: p.ClusterID,
		}
	}
	var loadings []model.AnalysisLoading
	for c := range res.Components {
		for rank, l := range res.Loadings[analysis.ComponentKey(c)] {
			loadings = append(loadings, model.AnalysisLoading{
				Component: c,
				Rank:      rank,
				Feature:   l.Feature,
				Weight:    l.Weight,
			})
		}
	}
	stored, err := db.InsertAnalysisRun(run, points, loadings)
	if err != nil {
		return stored, fmt.Errorf("save run: %w", err)
	}
	return stored, nil
}

func coordAt(c []float64, i int) float64 {
	if i < len(c) {
		return c[i]
	}
	return 0
}
