package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-nhl-metrics/internal/model"
)

func shooter(id int64, gp, goals, shots float64) model.PlayerRecord {
	return skater(id, gp, map[string]float64{
		model.StatGoals:       goals,
		model.StatShots:       shots,
		model.StatShootingPct: goals / shots,
	})
}

func TestShootingFilters(t *testing.T) {
	records := []model.PlayerRecord{
		shooter(1, 80, 30, 200),
		shooter(2, 10, 5, 40), // games at threshold
		shooter(3, 50, 2, 20), // shots at threshold
		shooter(4, 60, 10, 100),
	}
	res, err := Shooting(records, DefaultMinGamesPlayed)
	if err != nil {
		t.Fatalf("Shooting: %v", err)
	}
	if len(res.Points) != 2 || res.Points[0].PlayerID != 1 || res.Points[1].PlayerID != 4 {
		t.Fatalf("unexpected points %+v", res.Points)
	}
	p := res.Points[0]
	if math.Abs(p.X-2.5) > 1e-12 || math.Abs(p.Y-15) > 1e-9 {
		t.Errorf("player 1: want (2.5, 15), got (%v, %v)", p.X, p.Y)
	}
}

func TestShootingQuadrants(t *testing.T) {
	records := []model.PlayerRecord{
		shooter(1, 80, 40, 320), // 4.0/g, 12.5%
		shooter(2, 80, 20, 100), // 1.25/g, 20%
		shooter(3, 80, 10, 300), // 3.75/g, 3.3%
		shooter(4, 80, 3, 60),   // 0.75/g, 5%
	}
	res, err := Shooting(records, DefaultMinGamesPlayed)
	if err != nil {
		t.Fatalf("Shooting: %v", err)
	}
	want := map[int64]string{
		1: QuadrantEliteScorer,
		2: QuadrantSniper,
		3: QuadrantVolumeShooter,
		4: QuadrantLowOutput,
	}
	for _, p := range res.Points {
		if p.Quadrant != want[p.PlayerID] {
			t.Errorf("player %d at (%.2f, %.2f) means (%.2f, %.2f): want %s, got %s",
				p.PlayerID, p.X, p.Y, res.MeanX, res.MeanY, want[p.PlayerID], p.Quadrant)
		}
	}
}

func TestShootingAtMeanCountsAsHigh(t *testing.T) {
	res, err := Shooting([]model.PlayerRecord{shooter(1, 40, 10, 100)}, DefaultMinGamesPlayed)
	if err != nil {
		t.Fatalf("Shooting: %v", err)
	}
	if res.Points[0].Quadrant != QuadrantEliteScorer {
		t.Errorf("single player sits on both means: want %s, got %s", QuadrantEliteScorer, res.Points[0].Quadrant)
	}
}

func TestShootingEmpty(t *testing.T) {
	_, err := Shooting([]model.PlayerRecord{shooter(1, 5, 1, 10)}, DefaultMinGamesPlayed)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}
