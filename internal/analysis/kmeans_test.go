package analysis

import (
	"errors"
	"math"
	"testing"
)

// sameCluster reports whether assignments a and b induce the same partition.
func sameCluster(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		for j := range a {
			if (a[i] == a[j]) != (b[i] == b[j]) {
				return false
			}
		}
	}
	return true
}

func TestKMeansSeparatesTwoGroups(t *testing.T) {
	a := [][]float64{{0, 0}, {0.1, 0}, {0, 0.1}}
	b := [][]float64{{10, 10}, {10.1, 10}, {10, 10.1}}
	want := []int{0, 0, 0, 1, 1, 1}

	orders := map[string][][]float64{
		"grouped":     {a[0], a[1], a[2], b[0], b[1], b[2]},
		"interleaved": {a[0], b[0], a[1], b[1], a[2], b[2]},
		"b-first":     {b[0], b[1], a[0], a[1], a[2], b[2]},
	}
	// Expected membership per ordering, expressed as group labels.
	labels := map[string][]int{
		"grouped":     want,
		"interleaved": {0, 1, 0, 1, 0, 1},
		"b-first":     {1, 1, 0, 0, 0, 1},
	}

	for name, rows := range orders {
		t.Run(name, func(t *testing.T) {
			res, err := KMeans(mustMatrix(t, rows), 2, DefaultKMeansIterations)
			if err != nil {
				t.Fatalf("KMeans: %v", err)
			}
			if !res.Converged {
				t.Errorf("expected convergence within %d iterations, stopped after %d", DefaultKMeansIterations, res.Iterations)
			}
			if !sameCluster(res.Assignments, labels[name]) {
				t.Errorf("partition mismatch: got %v, want groups %v", res.Assignments, labels[name])
			}
		})
	}
}

func TestKMeansAssignmentsAreNearest(t *testing.T) {
	pts := mustMatrix(t, [][]float64{
		{1, 2}, {8, 9}, {-3, 4}, {2, 2}, {7, 7}, {-4, 5}, {0, 0}, {9, 8}, {-2, 3},
	})
	res, err := KMeans(pts, 3, DefaultKMeansIterations)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if !res.Converged {
		t.Skip("stopped at iteration cap; assignment is only locally optimal")
	}
	for i := 0; i < pts.Rows; i++ {
		own := euclidean(pts.Row(i), res.Centroids.Row(res.Assignments[i]))
		for c := 0; c < res.Centroids.Rows; c++ {
			if d := euclidean(pts.Row(i), res.Centroids.Row(c)); d < own {
				t.Errorf("point %d assigned to %d (%.3f) but centroid %d is closer (%.3f)", i, res.Assignments[i], own, c, d)
			}
		}
	}
}

func TestKMeansIDsInRange(t *testing.T) {
	pts := mustMatrix(t, [][]float64{{1, 1}, {1, 1}, {1, 1}, {5, 5}})
	res, err := KMeans(pts, 3, DefaultKMeansIterations)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if len(res.Assignments) != pts.Rows {
		t.Fatalf("want %d assignments, got %d", pts.Rows, len(res.Assignments))
	}
	for i, c := range res.Assignments {
		if c < 0 || c >= 3 {
			t.Errorf("point %d: cluster %d out of range", i, c)
		}
	}
}

func TestKMeansTieGoesToLowestIndex(t *testing.T) {
	// (1,0) is equidistant from the seeds (0,0) and (2,0).
	pts := mustMatrix(t, [][]float64{{0, 0}, {2, 0}, {1, 0}})
	res, err := KMeans(pts, 2, DefaultKMeansIterations)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if res.Assignments[2] != 0 {
		t.Errorf("tie should go to cluster 0, got %d", res.Assignments[2])
	}
}

func TestKMeansDuplicateSeedsLeaveClusterEmpty(t *testing.T) {
	// Duplicate seeds: the second cluster never wins a point under strict
	// less-than, so it stays empty and its centroid stays at the seed.
	pts := mustMatrix(t, [][]float64{{3, 3}, {3, 3}, {3, 4}})
	res, err := KMeans(pts, 2, DefaultKMeansIterations)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	c := res.Centroids.Row(1)
	if math.IsNaN(c[0]) || c[0] != 3 || c[1] != 3 {
		t.Errorf("empty cluster centroid moved to %v", c)
	}
	for i, a := range res.Assignments {
		if a != 0 {
			t.Errorf("point %d: want cluster 0, got %d", i, a)
		}
	}
}

func TestKMeansIterationCap(t *testing.T) {
	pts := mustMatrix(t, [][]float64{{0, 0}, {0.1, 0}, {10, 10}, {10, 10.1}})
	res, err := KMeans(pts, 2, 1)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if res.Iterations != 1 || res.Converged {
		t.Errorf("want 1 capped iteration, got iterations=%d converged=%v", res.Iterations, res.Converged)
	}
}

func TestKMeansInsufficientPoints(t *testing.T) {
	_, err := KMeans(mustMatrix(t, [][]float64{{0, 0}, {1, 1}}), 3, DefaultKMeansIterations)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}
}
