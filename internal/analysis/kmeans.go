package analysis

import (
	"fmt"
	"math"
)

// DefaultKMeansIterations caps the assign/update loop.
const DefaultKMeansIterations = 20

// DefaultClusters is the number of player-style groups.
const DefaultClusters = 4

// KMeansResult is the outcome of a clustering run. Converged is false when the
// loop stopped at the iteration cap; the assignment is then only locally
// optimal.
type KMeansResult struct {
	Assignments []int
	Centroids   *Matrix
	Iterations  int
	Converged   bool
}

// KMeans partitions the rows of points into k clusters. Centroids are seeded
// with the first k points in input order.
func KMeans(points *Matrix, k, maxIterations int) (*KMeansResult, error) {
	if k < 1 || points.Rows < k {
		return nil, fmt.Errorf("%w: %d points for %d clusters", ErrInsufficientPoints, points.Rows, k)
	}

	centroids := NewMatrix(k, points.Cols)
	for c := 0; c < k; c++ {
		copy(centroids.Row(c), points.Row(c))
	}
	assignments := make([]int, points.Rows)

	res := &KMeansResult{Assignments: assignments, Centroids: centroids}
	for it := 0; it < maxIterations; it++ {
		res.Iterations = it + 1

		changed := 0
		for i := 0; i < points.Rows; i++ {
			best := nearestCentroid(points.Row(i), centroids)
			// Every point starts in cluster 0, so the first pass only counts
			// points that actually move.
			if best != assignments[i] {
				assignments[i] = best
				changed++
			}
		}
		if changed == 0 {
			res.Converged = true
			break
		}

		sums := NewMatrix(k, points.Cols)
		counts := make([]int, k)
		for i := 0; i < points.Rows; i++ {
			c := assignments[i]
			counts[c]++
			row := points.Row(i)
			sum := sums.Row(c)
			for j := range row {
				sum[j] += row[j]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			cent := centroids.Row(c)
			sum := sums.Row(c)
			for j := range cent {
				cent[j] = sum[j] / float64(counts[c])
			}
		}
	}
	return res, nil
}

// nearestCentroid returns the index of the closest centroid. Ties go to the
// lowest index.
func nearestCentroid(p []float64, centroids *Matrix) int {
	best := 0
	bestDist := math.Inf(1)
	for c := 0; c < centroids.Rows; c++ {
		d := euclidean(p, centroids.Row(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func euclidean(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
