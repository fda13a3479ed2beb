// Package analysis groups skaters by playing style. It builds per-player
// feature vectors, z-scores them, reduces them to two dimensions with PCA
// (power iteration) and clusters the projected points with K-Means.
//
// Every function is pure: each call owns its matrices and random source, so
// concurrent calls are safe as long as they do not share a *rand.Rand.
package analysis

import (
	"fmt"
	"math/rand"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// Options controls a pipeline run. Zero counts and an empty feature list fall
// back to the defaults; MinGamesPlayed and Seed are used as given.
type Options struct {
	Features         []string
	MinGamesPlayed   float64
	Components       int
	Clusters         int
	PowerIterations  int
	KMeansIterations int
	Seed             int64
	// Rand overrides Seed when set. It must not be shared between goroutines.
	Rand *rand.Rand
}

// DefaultOptions returns the standard two-component, four-cluster setup.
func DefaultOptions() Options {
	return Options{
		Features:         append([]string(nil), DefaultFeatures...),
		MinGamesPlayed:   DefaultMinGamesPlayed,
		Components:       2,
		Clusters:         DefaultClusters,
		PowerIterations:  DefaultPowerIterations,
		KMeansIterations: DefaultKMeansIterations,
		Seed:             1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Features) == 0 {
		o.Features = d.Features
	}
	if o.Components == 0 {
		o.Components = d.Components
	}
	if o.Clusters == 0 {
		o.Clusters = d.Clusters
	}
	if o.PowerIterations == 0 {
		o.PowerIterations = d.PowerIterations
	}
	if o.KMeansIterations == 0 {
		o.KMeansIterations = d.KMeansIterations
	}
	return o
}

// PlotRecord is one player's position and cluster, ready for plotting.
type PlotRecord struct {
	PlayerID      int64              `json:"playerId"`
	Name          string             `json:"name"`
	Team          string             `json:"team"`
	Coordinates   []float64          `json:"coordinates"`
	ClusterID     int                `json:"clusterId"`
	DisplayFields map[string]float64 `json:"displayFields"`
}

// ClusterSummary reports how K-Means stopped.
type ClusterSummary struct {
	K          int   `json:"k"`
	Iterations int   `json:"iterations"`
	Converged  bool  `json:"converged"`
	Sizes      []int `json:"sizes"`
}

// Result is the full output of Run.
type Result struct {
	Points     []PlotRecord         `json:"points"`
	Loadings   map[string][]Loading `json:"loadings"`
	Clusters   ClusterSummary       `json:"clusters"`
	Features   []string             `json:"features"`
	Players    int                  `json:"players"`
	Components []PrincipalComponent `json:"-"`
}

// ComponentKey names the n-th (0-based) component in the loadings summary.
func ComponentKey(n int) string {
	return fmt.Sprintf("component%d", n+1)
}

// Run executes the full pipeline over records.
func Run(records []model.PlayerRecord, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // reproducible analysis, not security
	}

	ex, err := NewExtractor(opts.Features, opts.MinGamesPlayed)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	kept, raw, err := ex.Extract(records)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	std := Standardize(raw)
	pca, err := PCA(std, opts.Components, opts.PowerIterations, rng)
	if err != nil {
		return nil, fmt.Errorf("pca: %w", err)
	}

	names := ex.Names()
	loadings := make(map[string][]Loading, len(pca.Components))
	for _, pc := range pca.Components {
		loadings[ComponentKey(pc.Index)] = RankLoadings(pc.Vector, names, TopLoadings)
	}

	km, err := KMeans(pca.Projected, opts.Clusters, opts.KMeansIterations)
	if err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}

	sizes := make([]int, opts.Clusters)
	points := make([]PlotRecord, len(kept))
	for i := range kept {
		p := &kept[i]
		coords := append([]float64(nil), pca.Projected.Row(i)...)
		sizes[km.Assignments[i]]++
		points[i] = PlotRecord{
			PlayerID:      p.PlayerID,
			Name:          p.Name,
			Team:          p.Team,
			Coordinates:   coords,
			ClusterID:     km.Assignments[i],
			DisplayFields: displayFields(p),
		}
	}

	return &Result{
		Points:   points,
		Loadings: loadings,
		Clusters: ClusterSummary{
			K:          opts.Clusters,
			Iterations: km.Iterations,
			Converged:  km.Converged,
			Sizes:      sizes,
		},
		Features:   names,
		Players:    len(kept),
		Components: pca.Components,
	}, nil
}

// displayFields copies the record's stats so callers may mutate the result
// without touching the input.
func displayFields(p *model.PlayerRecord) map[string]float64 {
	out := make(map[string]float64, len(p.Stats))
	for k := range p.Stats {
		out[k] = p.Stat(k)
	}
	return out
}
