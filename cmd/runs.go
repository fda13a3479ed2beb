package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved analysis runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListAnalysisRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No saved runs. Use 'nhlmetrics style --save' to store one.")
		return nil
	}
	report.PrintRuns(os.Stdout, runs)
	return nil
}
