package analysis

import (
	"fmt"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// MinShots is the shot threshold for the shooting-efficiency view.
const MinShots = 20

// Shooting quadrants relative to the population means.
const (
	QuadrantEliteScorer   = "elite-scorer"
	QuadrantSniper        = "sniper"
	QuadrantVolumeShooter = "volume-shooter"
	QuadrantLowOutput     = "low-output"
)

// ShootingPoint places a player by shot volume (X, shots per game) and
// efficiency (Y, shooting percentage 0–100).
type ShootingPoint struct {
	PlayerID int64   `json:"playerId"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Goals    float64 `json:"goals"`
	Shots    float64 `json:"shots"`
	Points   float64 `json:"points"`
	Assists  float64 `json:"assists"`
	Quadrant string  `json:"quadrant"`
}

// ShootingResult is the shooting-efficiency view with the means used to
// split quadrants.
type ShootingResult struct {
	Points []ShootingPoint `json:"points"`
	MeanX  float64         `json:"meanX"`
	MeanY  float64         `json:"meanY"`
}

// Shooting keeps players with more than minGames games and more than MinShots
// shots and labels each with a volume/efficiency quadrant.
func Shooting(records []model.PlayerRecord, minGames float64) (*ShootingResult, error) {
	var pts []ShootingPoint
	for i := range records {
		p := &records[i]
		gp := p.GamesPlayed()
		if gp <= minGames || p.Stat(model.StatShots) <= MinShots {
			continue
		}
		pts = append(pts, ShootingPoint{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Team:     p.Team,
			X:        p.Stat(model.StatShots) / gp,
			Y:        p.Stat(model.StatShootingPct) * 100,
			Goals:    p.Stat(model.StatGoals),
			Shots:    p.Stat(model.StatShots),
			Points:   p.Stat(model.StatPoints),
			Assists:  p.Stat(model.StatAssists),
		})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no players with more than %.0f games and %d shots", ErrEmptyDataset, minGames, MinShots)
	}

	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	meanX := sx / float64(len(pts))
	meanY := sy / float64(len(pts))
	for i := range pts {
		pts[i].Quadrant = quadrant(pts[i].X >= meanX, pts[i].Y >= meanY)
	}
	return &ShootingResult{Points: pts, MeanX: meanX, MeanY: meanY}, nil
}

func quadrant(highVolume, highEfficiency bool) string {
	switch {
	case highVolume && highEfficiency:
		return QuadrantEliteScorer
	case highEfficiency:
		return QuadrantSniper
	case highVolume:
		return QuadrantVolumeShooter
	default:
		return QuadrantLowOutput
	}
}
