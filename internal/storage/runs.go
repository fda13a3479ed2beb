package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// NewRunID returns a fresh analysis run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// InsertAnalysisRun stores a run with its points and loadings. An empty
// run.ID is filled with a new UUID and CreatedAt with the current time; the
// stored header is returned.
func (db *DB) InsertAnalysisRun(run model.AnalysisRun, points []model.AnalysisPoint, loadings []model.AnalysisLoading) (model.AnalysisRun, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt == "" {
		run.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return run, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO analysis_runs(id, season_id, created_at, seed, features, clusters, components, players, iterations, converged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SeasonID, run.CreatedAt, run.Seed, strings.Join(run.Features, ","),
		run.Clusters, run.Components, run.Players, run.Iterations, boolInt(run.Converged),
	); err != nil {
		return run, fmt.Errorf("insert run: %w", err)
	}

	pstmt, err := tx.Prepare(`
		INSERT INTO analysis_points(run_id, player_id, name, team, x, y, cluster_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return run, err
	}
	defer pstmt.Close()
	for _, p := range points {
		if _, err := pstmt.Exec(run.ID, p.PlayerID, p.Name, p.Team, p.X, p.Y, p.ClusterID); err != nil {
			return run, fmt.Errorf("insert point %d: %w", p.PlayerID, err)
		}
	}

	lstmt, err := tx.Prepare(`
		INSERT INTO analysis_loadings(run_id, component, rank, feature, weight)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return run, err
	}
	defer lstmt.Close()
	for _, l := range loadings {
		if _, err := lstmt.Exec(run.ID, l.Component, l.Rank, l.Feature, l.Weight); err != nil {
			return run, fmt.Errorf("insert loading: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return run, err
	}
	return run, nil
}

const runColumns = `id, season_id, created_at, seed, features, clusters, components, players, iterations, converged`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (model.AnalysisRun, error) {
	var r model.AnalysisRun
	var features string
	var converged int
	err := s.Scan(&r.ID, &r.SeasonID, &r.CreatedAt, &r.Seed, &features,
		&r.Clusters, &r.Components, &r.Players, &r.Iterations, &converged)
	if err != nil {
		return r, err
	}
	if features != "" {
		r.Features = strings.Split(features, ",")
	}
	r.Converged = converged != 0
	return r, nil
}

// ListAnalysisRuns returns all stored runs, newest first.
func (db *DB) ListAnalysisRuns() ([]model.AnalysisRun, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM analysis_runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetAnalysisRunByPrefix returns the first run whose id starts with prefix,
// or nil when none matches.
func (db *DB) GetAnalysisRunByPrefix(prefix string) (*model.AnalysisRun, error) {
	r, err := scanRun(db.conn.QueryRow(
		`SELECT `+runColumns+` FROM analysis_runs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetAnalysisPoints returns the points of a run in cluster, then x order.
func (db *DB) GetAnalysisPoints(runID string) ([]model.AnalysisPoint, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, player_id, name, team, x, y, cluster_id
		FROM analysis_points WHERE run_id = ?
		ORDER BY cluster_id, x`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisPoint
	for rows.Next() {
		var p model.AnalysisPoint
		if err := rows.Scan(&p.RunID, &p.PlayerID, &p.Name, &p.Team, &p.X, &p.Y, &p.ClusterID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetAnalysisLoadings returns the loadings of a run by component and rank.
func (db *DB) GetAnalysisLoadings(runID string) ([]model.AnalysisLoading, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, component, rank, feature, weight
		FROM analysis_loadings WHERE run_id = ?
		ORDER BY component, rank`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AnalysisLoading
	for rows.Next() {
		var l model.AnalysisLoading
		if err := rows.Scan(&l.RunID, &l.Component, &l.Rank, &l.Feature, &l.Weight); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
