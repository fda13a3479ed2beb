package analysis

import (
	"math"
	"testing"
)

func TestRankLoadingsTopThree(t *testing.T) {
	got := RankLoadings([]float64{0.1, -0.9, 0.3, 0.05}, []string{"a", "b", "c", "d"}, TopLoadings)
	want := []Loading{{"b", 0.9}, {"c", 0.3}, {"a", 0.1}}
	if len(got) != len(want) {
		t.Fatalf("want %d loadings, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Feature != want[i].Feature || math.Abs(got[i].Weight-want[i].Weight) > 1e-12 {
			t.Errorf("rank %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestRankLoadingsTiesKeepFeatureOrder(t *testing.T) {
	got := RankLoadings([]float64{0.5, -0.5, 0.5, 0.2}, []string{"x", "y", "z", "w"}, TopLoadings)
	order := []string{"x", "y", "z"}
	for i, f := range order {
		if got[i].Feature != f {
			t.Errorf("rank %d: want %s, got %s", i, f, got[i].Feature)
		}
	}
}

func TestRankLoadingsFewerFeaturesThanTop(t *testing.T) {
	got := RankLoadings([]float64{-0.2, 0.8}, []string{"a", "b"}, TopLoadings)
	if len(got) != 2 || got[0].Feature != "b" || got[1].Weight != 0.2 {
		t.Errorf("unexpected loadings %+v", got)
	}
}
