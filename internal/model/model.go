// Package model holds the shared data types for skater statistics and
// analysis runs.
package model

import "math"

// Stat names used as keys in PlayerRecord.Stats. They match the field names of
// the stats API skater summary.
const (
	StatGamesPlayed      = "gamesPlayed"
	StatGoals            = "goals"
	StatAssists          = "assists"
	StatPoints           = "points"
	StatShots            = "shots"
	StatPlusMinus        = "plusMinus"
	StatPenaltyMinutes   = "penaltyMinutes"
	StatPPPoints         = "ppPoints"
	StatSHPoints         = "shPoints"
	StatShootingPct      = "shootingPct"
	StatGameWinningGoals = "gameWinningGoals"
)

// StatNames lists every stat in display order.
var StatNames = []string{
	StatGamesPlayed, StatGoals, StatAssists, StatPoints, StatShots,
	StatPlusMinus, StatPenaltyMinutes, StatPPPoints, StatSHPoints,
	StatShootingPct, StatGameWinningGoals,
}

// PlayerRecord is one skater's season line. Stats may be missing keys; a
// missing stat reads as zero.
type PlayerRecord struct {
	PlayerID int64
	Name     string
	Team     string
	Stats    map[string]float64
}

// Stat returns the named stat, or 0 when it is absent or not finite.
func (p *PlayerRecord) Stat(name string) float64 {
	v, ok := p.Stats[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// GamesPlayed is shorthand for Stat(StatGamesPlayed).
func (p *PlayerRecord) GamesPlayed() float64 {
	return p.Stat(StatGamesPlayed)
}

// PointsPerGame returns points per game, 0 when no games were played.
func (p *PlayerRecord) PointsPerGame() float64 {
	gp := p.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return p.Stat(StatPoints) / gp
}

// Season summarises one fetched season stored in the database.
type Season struct {
	SeasonID    string
	FetchedAt   string
	PlayerCount int
}

// AnalysisRun is a stored style-analysis result header.
type AnalysisRun struct {
	ID         string
	SeasonID   string
	CreatedAt  string
	Seed       int64
	Features   []string
	Clusters   int
	Components int
	Players    int
	Iterations int
	Converged  bool
}

// AnalysisPoint is a stored projected player position.
type AnalysisPoint struct {
	RunID     string
	PlayerID  int64
	Name      string
	Team      string
	X, Y      float64
	ClusterID int
}

// AnalysisLoading is one ranked feature weight of a stored component.
type AnalysisLoading struct {
	RunID     string
	Component int
	Rank      int
	Feature   string
	Weight    float64
}
