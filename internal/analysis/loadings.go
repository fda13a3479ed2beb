package analysis

import (
	"math"
	"sort"
)

// TopLoadings is how many features are reported per component.
const TopLoadings = 3

// Loading is a feature's absolute weight in a principal component.
type Loading struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// RankLoadings returns the top n features of weights by absolute value,
// descending. Ties keep feature order.
func RankLoadings(weights []float64, features []string, n int) []Loading {
	all := make([]Loading, 0, len(weights))
	for i, w := range weights {
		if i >= len(features) {
			break
		}
		all = append(all, Loading{Feature: features[i], Weight: math.Abs(w)})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Weight > all[j].Weight
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}
