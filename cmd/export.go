package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/model"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <run-prefix>",
	Short: "Export a saved run's projected points for plotting",
	Long: `Writes one row per player: id, name, team, x, y and cluster (1-based).

Examples:
  nhlmetrics export 3f2a --out style.csv
  nhlmetrics export 3f2a --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", exportFormat)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetAnalysisRunByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no run found with id prefix %q", args[0])
	}
	points, err := db.GetAnalysisPoints(run.ID)
	if err != nil {
		return fmt.Errorf("get run points: %w", err)
	}

	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	if exportFormat == "json" {
		err = writePointsJSON(w, points)
	} else {
		err = writePointsCSV(w, points)
	}
	if err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d players to %s\n", len(points), exportOut)
	}
	return nil
}

func writePointsCSV(w io.Writer, points []model.AnalysisPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"player_id", "name", "team", "x", "y", "cluster"}); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, p := range points {
		rec := []string{
			strconv.FormatInt(p.PlayerID, 10),
			p.Name,
			p.Team,
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.Itoa(p.ClusterID + 1),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type exportPoint struct {
	PlayerID int64   `json:"playerId"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Cluster  int     `json:"cluster"`
}

func writePointsJSON(w io.Writer, points []model.AnalysisPoint) error {
	out := make([]exportPoint, len(points))
	for i, p := range points {
		out[i] = exportPoint{PlayerID: p.PlayerID, Name: p.Name, Team: p.Team, X: p.X, Y: p.Y, Cluster: p.ClusterID + 1}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
