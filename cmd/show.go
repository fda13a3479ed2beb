package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <run-prefix>",
	Short: "Show a saved analysis run by id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return showRun(os.Stdout, db, args[0])
}

// showRun prints the stored run matching prefix.
func showRun(w io.Writer, db *storage.DB, prefix string) error {
	run, err := db.GetAnalysisRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("no run found with id prefix %q", prefix)
	}
	points, err := db.GetAnalysisPoints(run.ID)
	if err != nil {
		return fmt.Errorf("get run points: %w", err)
	}
	loadings, err := db.GetAnalysisLoadings(run.ID)
	if err != nil {
		return fmt.Errorf("get run loadings: %w", err)
	}
	report.PrintStoredRun(w, run, points, loadings)
	return nil
}
