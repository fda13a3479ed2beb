package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// statColumns maps stat names to skater_stats columns, in insert order.
var statColumns = []struct {
	stat   string
	column string
}{
	{model.StatGamesPlayed, "games_played"},
	{model.StatGoals, "goals"},
	{model.StatAssists, "assists"},
	{model.StatPoints, "points"},
	{model.StatShots, "shots"},
	{model.StatPlusMinus, "plus_minus"},
	{model.StatPenaltyMinutes, "penalty_minutes"},
	{model.StatPPPoints, "pp_points"},
	{model.StatSHPoints, "sh_points"},
	{model.StatShootingPct, "shooting_pct"},
	{model.StatGameWinningGoals, "game_winning_goals"},
}

// ReplaceSeason deletes any stored rows for seasonID and inserts records in a
// single transaction. Missing stats are stored as NULL.
func (db *DB) ReplaceSeason(seasonID string, records []model.PlayerRecord, fetchedAt time.Time) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM skater_stats WHERE season_id = ?`, seasonID); err != nil {
		return fmt.Errorf("clear season: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO seasons(season_id, fetched_at, player_count)
		VALUES (?, ?, ?)
		ON CONFLICT(season_id) DO UPDATE SET
			fetched_at = excluded.fetched_at,
			player_count = excluded.player_count`,
		seasonID, fetchedAt.UTC().Format(time.RFC3339), len(records),
	); err != nil {
		return fmt.Errorf("upsert season: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO skater_stats(
			season_id, player_id, name, team,
			games_played, goals, assists, points, shots, plus_minus,
			penalty_minutes, pp_points, sh_points, shooting_pct, game_winning_goals
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		args := []any{seasonID, r.PlayerID, r.Name, r.Team}
		for _, c := range statColumns {
			if v, ok := r.Stats[c.stat]; ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert player %d: %w", r.PlayerID, err)
		}
	}
	return tx.Commit()
}

// ListSeasons returns stored seasons, newest first.
func (db *DB) ListSeasons() ([]model.Season, error) {
	rows, err := db.conn.Query(`
		SELECT season_id, fetched_at, player_count
		FROM seasons ORDER BY season_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Season
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.SeasonID, &s.FetchedAt, &s.PlayerCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestSeason returns the most recent stored season id, or "" when none.
func (db *DB) LatestSeason() (string, error) {
	var id string
	err := db.conn.QueryRow(`SELECT season_id FROM seasons ORDER BY season_id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// GetSkaterRecords returns the stored skaters of a season ordered by points
// descending, then player id. K-Means seeds from the first rows, so the order
// is part of the contract.
func (db *DB) GetSkaterRecords(seasonID string) ([]model.PlayerRecord, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, name, team,
		       games_played, goals, assists, points, shots, plus_minus,
		       penalty_minutes, pp_points, sh_points, shooting_pct, game_winning_goals
		FROM skater_stats
		WHERE season_id = ?
		ORDER BY COALESCE(points, 0) DESC, player_id ASC`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerRecord
	for rows.Next() {
		var r model.PlayerRecord
		vals := make([]sql.NullFloat64, len(statColumns))
		dest := []any{&r.PlayerID, &r.Name, &r.Team}
		for i := range vals {
			dest = append(dest, &vals[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		r.Stats = make(map[string]float64, len(statColumns))
		for i, c := range statColumns {
			if vals[i].Valid {
				r.Stats[c.stat] = vals[i].Float64
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified
// rows. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatRaw(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatRaw(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	case float64:
		return fmt.Sprintf("%.4g", t)
	default:
		return fmt.Sprint(t)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
