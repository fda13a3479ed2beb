// Package nhl provides a minimal client for the NHL stats REST API.
package nhl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-nhl-metrics/internal/model"
)

// acceptEncoding is advertised on every request. Setting it by hand turns off
// net/http's transparent gzip, so decodeBody handles both.
const acceptEncoding = "zstd, gzip"

// DefaultBaseURL is the root endpoint for the NHL stats REST API.
const DefaultBaseURL = "https://api.nhle.com/stats/rest/en"

// DefaultLimit is the number of skaters fetched per season.
const DefaultLimit = 200

// regularSeason is the gameTypeId of regular-season games.
const regularSeason = 2

// Client is a minimal NHL stats API client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. An empty baseURL means
// DefaultBaseURL; a zero timeout means 30s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SeasonID returns the season identifier in effect at now, e.g. "20252026".
// A season starts in October; earlier months belong to the season that
// started the previous year.
func SeasonID(now time.Time) string {
	start := now.Year()
	if now.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d%d", start, start+1)
}

// ValidSeasonID reports whether id looks like "20242025".
func ValidSeasonID(id string) bool {
	if len(id) != 8 {
		return false
	}
	a, err1 := strconv.Atoi(id[:4])
	b, err2 := strconv.Atoi(id[4:])
	return err1 == nil && err2 == nil && b == a+1
}

// Skater is one row of the skater summary report. Stats are pointers because
// the API sends null for stats that do not apply (e.g. shootingPct with no
// shots).
type Skater struct {
	PlayerID         int64    `json:"playerId"`
	SkaterFullName   string   `json:"skaterFullName"`
	TeamAbbrevs      string   `json:"teamAbbrevs"`
	PositionCode     string   `json:"positionCode"`
	GamesPlayed      *float64 `json:"gamesPlayed"`
	Goals            *float64 `json:"goals"`
	Assists          *float64 `json:"assists"`
	Points           *float64 `json:"points"`
	Shots            *float64 `json:"shots"`
	PlusMinus        *float64 `json:"plusMinus"`
	PenaltyMinutes   *float64 `json:"penaltyMinutes"`
	PPPoints         *float64 `json:"ppPoints"`
	SHPoints         *float64 `json:"shPoints"`
	ShootingPct      *float64 `json:"shootingPct"`
	GameWinningGoals *float64 `json:"gameWinningGoals"`
}

// Record converts the row to a PlayerRecord. Null stats are left out of the
// stat map.
func (s *Skater) Record() model.PlayerRecord {
	stats := make(map[string]float64, len(model.StatNames))
	set := func(name string, v *float64) {
		if v != nil {
			stats[name] = *v
		}
	}
	set(model.StatGamesPlayed, s.GamesPlayed)
	set(model.StatGoals, s.Goals)
	set(model.StatAssists, s.Assists)
	set(model.StatPoints, s.Points)
	set(model.StatShots, s.Shots)
	set(model.StatPlusMinus, s.PlusMinus)
	set(model.StatPenaltyMinutes, s.PenaltyMinutes)
	set(model.StatPPPoints, s.PPPoints)
	set(model.StatSHPoints, s.SHPoints)
	set(model.StatShootingPct, s.ShootingPct)
	set(model.StatGameWinningGoals, s.GameWinningGoals)
	return model.PlayerRecord{
		PlayerID: s.PlayerID,
		Name:     s.SkaterFullName,
		Team:     s.TeamAbbrevs,
		Stats:    stats,
	}
}

// SkaterSummary is the skater summary report envelope.
type SkaterSummary struct {
	Data  []Skater `json:"data"`
	Total int      `json:"total"`
}

// get performs a GET request against the API and JSON-decodes the response
// body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", path, resp.StatusCode)
	}
	body, closeBody, err := decodeBody(resp)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer closeBody()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// decodeBody wraps the response body according to its Content-Encoding.
func decodeBody(resp *http.Response) (io.Reader, func(), error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return resp.Body, func() {}, nil
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}

// SkaterSummary fetches up to limit regular-season skaters of seasonID,
// sorted by points descending.
func (c *Client) SkaterSummary(ctx context.Context, seasonID string, limit int) (*SkaterSummary, error) {
	if !ValidSeasonID(seasonID) {
		return nil, fmt.Errorf("invalid season id %q", seasonID)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := url.Values{}
	q.Set("isAggregate", "false")
	q.Set("isGame", "false")
	q.Set("sort", `[{"property":"points","direction":"DESC"}]`)
	q.Set("start", "0")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("factCayenneExp", "gamesPlayed>=1")
	q.Set("cayenneExp", fmt.Sprintf("gameTypeId=%d and seasonId<=%s and seasonId>=%s", regularSeason, seasonID, seasonID))

	var out SkaterSummary
	if err := c.get(ctx, "/skater/summary", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Records converts every row of the report.
func (s *SkaterSummary) Records() []model.PlayerRecord {
	out := make([]model.PlayerRecord, len(s.Data))
	for i := range s.Data {
		out[i] = s.Data[i].Record()
	}
	return out
}
