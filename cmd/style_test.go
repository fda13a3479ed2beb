package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/model"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

const testSeason = "20232024"

func testLeague(n int) []model.PlayerRecord {
	out := make([]model.PlayerRecord, n)
	for i := range out {
		f := float64(i)
		out[i] = model.PlayerRecord{
			PlayerID: int64(8470000 + i),
			Name:     fmt.Sprintf("Skater %d", i+1),
			Team:     "TOR",
			Stats: map[string]float64{
				model.StatGamesPlayed:      70 + f,
				model.StatGoals:            4 + 2*f,
				model.StatAssists:          8 + float64((i*5)%13),
				model.StatPoints:           12 + 2*f + float64((i*5)%13),
				model.StatShots:            60 + 11*f,
				model.StatPlusMinus:        float64((i*3)%7) - 3,
				model.StatPenaltyMinutes:   float64((i * 17) % 50),
				model.StatPPPoints:         float64(i % 5),
				model.StatShootingPct:      (4 + 2*f) / (60 + 11*f),
				model.StatGameWinningGoals: float64(i % 3),
			},
		}
	}
	return out
}

func seededDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.ReplaceSeason(testSeason, testLeague(14), time.Now()); err != nil {
		t.Fatalf("ReplaceSeason: %v", err)
	}
	return db
}

func testCommand() *cobra.Command {
	c := &cobra.Command{}
	c.SetContext(context.Background())
	return c
}

func TestAnalyzeSeasonAndSaveRun(t *testing.T) {
	db := seededDB(t)
	opts := analysis.DefaultOptions()
	opts.Clusters = 3
	opts.Seed = 7

	res, err := analyzeSeason(testCommand(), db, testSeason, opts)
	if err != nil {
		t.Fatalf("analyzeSeason: %v", err)
	}

	run, err := saveRun(db, testSeason, opts, res)
	if err != nil {
		t.Fatalf("saveRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run id")
	}
	if run.Seed != 7 || run.Clusters != 3 || run.Players != res.Players {
		t.Errorf("run header = %+v", run)
	}

	points, err := db.GetAnalysisPoints(run.ID)
	if err != nil {
		t.Fatalf("GetAnalysisPoints: %v", err)
	}
	if len(points) != res.Players {
		t.Fatalf("stored %d points, want %d", len(points), res.Players)
	}
	byID := make(map[int64]analysis.PlotRecord, len(res.Points))
	for _, p := range res.Points {
		byID[p.PlayerID] = p
	}
	for _, p := range points {
		want := byID[p.PlayerID]
		if p.X != want.Coordinates[0] || p.Y != want.Coordinates[1] || p.ClusterID != want.ClusterID {
			t.Errorf("player %d stored as (%v,%v,%d), want (%v,%v,%d)",
				p.PlayerID, p.X, p.Y, p.ClusterID, want.Coordinates[0], want.Coordinates[1], want.ClusterID)
		}
	}

	loadings, err := db.GetAnalysisLoadings(run.ID)
	if err != nil {
		t.Fatalf("GetAnalysisLoadings: %v", err)
	}
	want := len(res.Loadings[analysis.ComponentKey(0)]) + len(res.Loadings[analysis.ComponentKey(1)])
	if len(loadings) != want {
		t.Errorf("stored %d loadings, want %d", len(loadings), want)
	}
}

func TestAnalyzeSeasonUnknownSeason(t *testing.T) {
	db := seededDB(t)
	_, err := analyzeSeason(testCommand(), db, "19801981", analysis.DefaultOptions())
	if err == nil {
		t.Fatal("expected error for empty season")
	}
	if !analysis.IsDataError(err) {
		t.Errorf("expected data error, got %v", err)
	}
}

func TestRunContextAndExport(t *testing.T) {
	db := seededDB(t)
	opts := analysis.DefaultOptions()
	res, err := analyzeSeason(testCommand(), db, testSeason, opts)
	if err != nil {
		t.Fatalf("analyzeSeason: %v", err)
	}
	run, err := saveRun(db, testSeason, opts, res)
	if err != nil {
		t.Fatalf("saveRun: %v", err)
	}
	points, _ := db.GetAnalysisPoints(run.ID)
	loadings, _ := db.GetAnalysisLoadings(run.ID)

	t.Run("context", func(t *testing.T) {
		doc, err := buildRunContext(&run, points, loadings)
		if err != nil {
			t.Fatalf("buildRunContext: %v", err)
		}
		var parsed struct {
			Season   string                    `json:"season"`
			Loadings map[string][]loadingEntry `json:"loadings"`
			Clusters []clusterEntry            `json:"clusters"`
		}
		if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
			t.Fatalf("context is not JSON: %v", err)
		}
		if parsed.Season != testSeason {
			t.Errorf("season = %q", parsed.Season)
		}
		if len(parsed.Clusters) != opts.Clusters {
			t.Fatalf("got %d clusters, want %d", len(parsed.Clusters), opts.Clusters)
		}
		total := 0
		for _, c := range parsed.Clusters {
			total += c.Size
		}
		if total != len(points) {
			t.Errorf("cluster sizes sum to %d, want %d", total, len(points))
		}
		if len(parsed.Loadings["component1"]) == 0 {
			t.Error("expected component1 loadings")
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writePointsCSV(&buf, points); err != nil {
			t.Fatalf("writePointsCSV: %v", err)
		}
		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("read csv: %v", err)
		}
		if len(rows) != len(points)+1 {
			t.Errorf("got %d rows, want header + %d", len(rows), len(points))
		}
		if rows[0][0] != "player_id" || rows[0][5] != "cluster" {
			t.Errorf("header = %v", rows[0])
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writePointsJSON(&buf, points); err != nil {
			t.Fatalf("writePointsJSON: %v", err)
		}
		var out []exportPoint
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, p := range out {
			if p.Cluster < 1 || p.Cluster > opts.Clusters {
				t.Errorf("cluster %d out of 1..%d", p.Cluster, opts.Clusters)
			}
		}
	})
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.123, 0.12},
		{0.125, 0.13},
		{-0.125, -0.13},
		{3, 3},
	}
	for _, c := range cases {
		if got := round2(c.in); got != c.want {
			t.Errorf("round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
