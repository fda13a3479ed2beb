package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// skater builds a record with the given games played and extra stats.
func skater(id int64, gp float64, stats map[string]float64) model.PlayerRecord {
	s := map[string]float64{model.StatGamesPlayed: gp}
	for k, v := range stats {
		s[k] = v
	}
	return model.PlayerRecord{PlayerID: id, Name: "p", Team: "TOR", Stats: s}
}

func TestFilterKeepsOnlyPlayersAboveThreshold(t *testing.T) {
	ex, err := NewExtractor(DefaultFeatures, DefaultMinGamesPlayed)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	records := []model.PlayerRecord{
		skater(1, 15, nil),
		skater(2, 20, nil),
		skater(3, 5, nil),
	}
	kept := ex.Filter(records)
	if len(kept) != 2 {
		t.Fatalf("expected 2 players to survive filter, got %d", len(kept))
	}
	if kept[0].PlayerID != 1 || kept[1].PlayerID != 2 {
		t.Errorf("filter must preserve input order, got ids %d,%d", kept[0].PlayerID, kept[1].PlayerID)
	}
}

func TestFilterBoundaryIsExclusive(t *testing.T) {
	ex, _ := NewExtractor(DefaultFeatures, 10)
	kept := ex.Filter([]model.PlayerRecord{skater(1, 10, nil), skater(2, 11, nil)})
	if len(kept) != 1 || kept[0].PlayerID != 2 {
		t.Errorf("expected only the 11-game player, got %+v", kept)
	}
}

func TestVectorRatiosAndZeroDenominators(t *testing.T) {
	ex, err := NewExtractor([]string{"goalsPerShot", "assistsPerGoal", "pointsPerGame", "goals"}, 0)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	p := skater(1, 20, map[string]float64{
		model.StatGoals:   10,
		model.StatShots:   50,
		model.StatAssists: 15,
		model.StatPoints:  25,
	})
	v := ex.Vector(&p)
	want := []float64{0.2, 1.5, 1.25, 10}
	for i := range want {
		if math.Abs(v[i]-want[i]) > 1e-12 {
			t.Errorf("feature %d: want %v, got %v", i, want[i], v[i])
		}
	}

	// No goals, no shots: both ratios divide by zero.
	z := skater(2, 20, map[string]float64{model.StatAssists: 3})
	v = ex.Vector(&z)
	if v[0] != 0 || v[1] != 0 {
		t.Errorf("zero denominators should yield 0, got %v", v[:2])
	}
}

func TestVectorTreatsMissingAndNonFiniteAsZero(t *testing.T) {
	ex, _ := NewExtractor([]string{"goals", "shots", "plusMinus", "shotsPerGame"}, 0)
	p := skater(1, 12, map[string]float64{
		model.StatGoals:     math.NaN(),
		model.StatPlusMinus: math.Inf(1),
	})
	v := ex.Vector(&p)
	if len(v) != 4 {
		t.Fatalf("vector length: want 4, got %d", len(v))
	}
	for i, x := range v {
		if x != 0 {
			t.Errorf("feature %d: want 0, got %v", i, x)
		}
	}
}

func TestNewExtractorRejectsUnknownFeature(t *testing.T) {
	_, err := NewExtractor([]string{"goals", "corsi"}, 10)
	if !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("expected ErrUnknownFeature, got %v", err)
	}
	_, err = NewExtractor(nil, 10)
	if !errors.Is(err, ErrUnknownFeature) {
		t.Errorf("expected ErrUnknownFeature for empty list, got %v", err)
	}
}

func TestExtractEmptyDataset(t *testing.T) {
	ex, _ := NewExtractor(DefaultFeatures, 10)
	_, _, err := ex.Extract([]model.PlayerRecord{skater(1, 3, nil), skater(2, 10, nil)})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestExtractShape(t *testing.T) {
	ex, _ := NewExtractor(DefaultFeatures, 10)
	kept, m, err := ex.Extract([]model.PlayerRecord{
		skater(1, 30, map[string]float64{model.StatPoints: 30}),
		skater(2, 2, nil),
		skater(3, 40, map[string]float64{model.StatPoints: 20}),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(kept) != 2 || m.Rows != 2 || m.Cols != len(DefaultFeatures) {
		t.Fatalf("unexpected shape: kept=%d rows=%d cols=%d", len(kept), m.Rows, m.Cols)
	}
	// pointsPerGame is column 5.
	if m.At(0, 5) != 1 || m.At(1, 5) != 0.5 {
		t.Errorf("pointsPerGame column: got %v, %v", m.At(0, 5), m.At(1, 5))
	}
}

func TestFeatureDescription(t *testing.T) {
	cases := map[string]string{
		"assistsPerGoal": "assists / goals",
		"ppShare":        "ppPoints / points",
		"gwgPerGame":     "gameWinningGoals / gamesPlayed",
		"goals":          "raw goals",
	}
	for name, want := range cases {
		f, ok := LookupFeature(name)
		if !ok {
			t.Fatalf("LookupFeature(%q) not found", name)
		}
		if got := f.Description(); got != want {
			t.Errorf("%s: Description() = %q, want %q", name, got, want)
		}
	}
}
