package analysis

import (
	"fmt"
	"math"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// DefaultMinGamesPlayed is the games-played threshold; players must have
// strictly more games than this to be analysed.
const DefaultMinGamesPlayed = 10

// Feature is one column of the feature matrix: either a raw stat
// (Denominator empty) or the ratio Numerator/Denominator.
type Feature struct {
	Name        string
	Numerator   string
	Denominator string
}

// Value computes the feature for a record. Zero denominators and non-finite
// inputs yield 0.
func (f Feature) Value(p *model.PlayerRecord) float64 {
	num := p.Stat(f.Numerator)
	if f.Denominator == "" {
		return num
	}
	den := p.Stat(f.Denominator)
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Description renders the feature definition, e.g. "goals / shots".
func (f Feature) Description() string {
	if f.Denominator == "" {
		return "raw " + f.Numerator
	}
	return f.Numerator + " / " + f.Denominator
}

// Derived ratio features.
var ratioFeatures = []Feature{
	{Name: "goalsPerShot", Numerator: model.StatGoals, Denominator: model.StatShots},
	{Name: "assistsPerGoal", Numerator: model.StatAssists, Denominator: model.StatGoals},
	{Name: "ppShare", Numerator: model.StatPPPoints, Denominator: model.StatPoints},
	{Name: "plusMinusPerGame", Numerator: model.StatPlusMinus, Denominator: model.StatGamesPlayed},
	{Name: "pimPerGame", Numerator: model.StatPenaltyMinutes, Denominator: model.StatGamesPlayed},
	{Name: "pointsPerGame", Numerator: model.StatPoints, Denominator: model.StatGamesPlayed},
	{Name: "shotsPerGame", Numerator: model.StatShots, Denominator: model.StatGamesPlayed},
	{Name: "gwgPerGame", Numerator: model.StatGameWinningGoals, Denominator: model.StatGamesPlayed},
}

// DefaultFeatures is the feature set used when none is configured.
var DefaultFeatures = []string{
	"goalsPerShot", "assistsPerGoal", "ppShare", "plusMinusPerGame",
	"pimPerGame", "pointsPerGame", "shotsPerGame", "gwgPerGame",
}

// LookupFeature resolves a feature name to its definition. Raw stat names
// resolve to themselves.
func LookupFeature(name string) (Feature, bool) {
	for _, f := range ratioFeatures {
		if f.Name == name {
			return f, true
		}
	}
	for _, s := range model.StatNames {
		if s == name {
			return Feature{Name: name, Numerator: name}, true
		}
	}
	return Feature{}, false
}

// Extractor turns player records into a feature matrix.
type Extractor struct {
	features []Feature
	minGames float64
}

// NewExtractor validates the feature names and returns an Extractor that keeps
// players with more than minGames games played.
func NewExtractor(names []string, minGames float64) (*Extractor, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no features configured", ErrUnknownFeature)
	}
	fs := make([]Feature, 0, len(names))
	for _, n := range names {
		f, ok := LookupFeature(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, n)
		}
		fs = append(fs, f)
	}
	return &Extractor{features: fs, minGames: minGames}, nil
}

// Names returns the configured feature names in column order.
func (e *Extractor) Names() []string {
	out := make([]string, len(e.features))
	for i, f := range e.features {
		out[i] = f.Name
	}
	return out
}

// Filter returns the records passing the games-played threshold, in input order.
func (e *Extractor) Filter(records []model.PlayerRecord) []model.PlayerRecord {
	var kept []model.PlayerRecord
	for _, r := range records {
		if r.GamesPlayed() > e.minGames {
			kept = append(kept, r)
		}
	}
	return kept
}

// Vector computes the feature vector of a single record.
func (e *Extractor) Vector(p *model.PlayerRecord) []float64 {
	v := make([]float64, len(e.features))
	for i, f := range e.features {
		v[i] = f.Value(p)
	}
	return v
}

// Extract filters records and builds one matrix row per kept player.
func (e *Extractor) Extract(records []model.PlayerRecord) ([]model.PlayerRecord, *Matrix, error) {
	kept := e.Filter(records)
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("%w: no players with more than %.0f games played", ErrEmptyDataset, e.minGames)
	}
	m := NewMatrix(len(kept), len(e.features))
	for i := range kept {
		copy(m.Row(i), e.Vector(&kept[i]))
	}
	return kept, m, nil
}
