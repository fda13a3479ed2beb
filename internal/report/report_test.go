package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/model"
)

func init() {
	color.NoColor = true
}

func sampleResult() *analysis.Result {
	pt := func(id int64, name string, x, y float64, c int, pts float64) analysis.PlotRecord {
		return analysis.PlotRecord{
			PlayerID: id, Name: name, Team: "COL",
			Coordinates: []float64{x, y}, ClusterID: c,
			DisplayFields: map[string]float64{model.StatGamesPlayed: 80, model.StatPoints: pts},
		}
	}
	return &analysis.Result{
		Points: []analysis.PlotRecord{
			pt(1, "MacKinnon", 2.1, 0.4, 0, 140),
			pt(2, "Makar", 1.8, -0.2, 0, 90),
			pt(3, "Grinder", -1.2, 0.9, 1, 15),
		},
		Loadings: map[string][]analysis.Loading{
			"component2": {{Feature: "pimPerGame", Weight: 0.7}},
			"component1": {{Feature: "pointsPerGame", Weight: 0.6}},
		},
		Clusters: analysis.ClusterSummary{K: 3, Iterations: 2, Converged: true, Sizes: []int{2, 1, 0}},
		Players:  3,
	}
}

func TestPrintLoadingsSortsComponents(t *testing.T) {
	var buf bytes.Buffer
	PrintLoadings(&buf, sampleResult().Loadings)
	out := buf.String()
	if strings.Index(out, "component1") > strings.Index(out, "component2") {
		t.Errorf("component1 should print first:\n%s", out)
	}
	if !strings.Contains(out, "0.600") {
		t.Errorf("weight missing:\n%s", out)
	}
}

func TestPrintClustersHandlesEmptyCluster(t *testing.T) {
	var buf bytes.Buffer
	PrintClusters(&buf, sampleResult())
	out := buf.String()
	for _, want := range []string{"C1", "C2", "C3", "MacKinnon, Makar", "1.95"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintPoints(t *testing.T) {
	var buf bytes.Buffer
	PrintPoints(&buf, sampleResult().Points)
	if !strings.Contains(buf.String(), "-1.200") {
		t.Errorf("coordinate missing:\n%s", buf.String())
	}
}

func TestPrintShootingOrdersByGoals(t *testing.T) {
	var buf bytes.Buffer
	PrintShooting(&buf, &analysis.ShootingResult{
		Points: []analysis.ShootingPoint{
			{Name: "Low", Goals: 5, Quadrant: analysis.QuadrantLowOutput},
			{Name: "High", Goals: 50, Quadrant: analysis.QuadrantEliteScorer},
		},
		MeanX: 2, MeanY: 10,
	})
	out := buf.String()
	if strings.Index(out, "High") > strings.Index(out, "Low") {
		t.Errorf("expected descending goals:\n%s", out)
	}
	if !strings.Contains(out, analysis.QuadrantEliteScorer) {
		t.Errorf("quadrant missing:\n%s", out)
	}
}

func TestPrintRunsShortensID(t *testing.T) {
	var buf bytes.Buffer
	PrintRuns(&buf, []model.AnalysisRun{{ID: "0123456789abcdef", SeasonID: "20242025", Converged: true}})
	out := buf.String()
	if !strings.Contains(out, "01234567") || strings.Contains(out, "0123456789") {
		t.Errorf("expected 8-char id:\n%s", out)
	}
}

func TestClusterLabelCycles(t *testing.T) {
	if ClusterLabel(0) != "C1" || ClusterLabel(7) != "C8" {
		t.Errorf("unexpected labels %q %q", ClusterLabel(0), ClusterLabel(7))
	}
}
