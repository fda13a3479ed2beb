// Package report renders analysis results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/model"
)

// clusterColors cycles when there are more clusters than colours.
var clusterColors = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgYellow),
	color.New(color.FgGreen),
	color.New(color.FgMagenta),
	color.New(color.FgBlue),
	color.New(color.FgRed),
}

var cHeader = color.New(color.FgCyan, color.Bold)

// ClusterLabel returns the coloured display label of a cluster.
func ClusterLabel(id int) string {
	return clusterColors[id%len(clusterColors)].Sprintf("C%d", id+1)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSection prints a bold section title.
func PrintSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", cHeader.Sprint(title))
}

// PrintRunHeader prints a one-line summary of an analysis.
func PrintRunHeader(w io.Writer, seasonID string, res *analysis.Result) {
	conv := "converged"
	if !res.Clusters.Converged {
		conv = "iteration cap"
	}
	fmt.Fprintf(w, "\nSeason: %s  |  Players: %d  |  Clusters: %d  |  K-Means: %d iterations (%s)\n",
		seasonID, res.Players, res.Clusters.K, res.Clusters.Iterations, conv)
}

// PrintLoadings prints the top features of each component.
func PrintLoadings(w io.Writer, loadings map[string][]analysis.Loading) {
	keys := make([]string, 0, len(loadings))
	for k := range loadings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := newTable(w)
	table.Header("COMPONENT", "RANK", "FEATURE", "|WEIGHT|")
	for _, k := range keys {
		for i, l := range loadings[k] {
			table.Append(k, strconv.Itoa(i+1), l.Feature, fmt.Sprintf("%.3f", l.Weight))
		}
	}
	table.Render()
}

// PrintClusters prints one row per cluster: size, centroid of the projected
// points and the three highest-scoring members.
func PrintClusters(w io.Writer, res *analysis.Result) {
	type agg struct {
		n       int
		sx, sy  float64
		members []analysis.PlotRecord
	}
	aggs := make([]agg, res.Clusters.K)
	for _, p := range res.Points {
		a := &aggs[p.ClusterID]
		a.n++
		if len(p.Coordinates) > 0 {
			a.sx += p.Coordinates[0]
		}
		if len(p.Coordinates) > 1 {
			a.sy += p.Coordinates[1]
		}
		a.members = append(a.members, p)
	}

	table := newTable(w)
	table.Header("CLUSTER", "PLAYERS", "MEAN_X", "MEAN_Y", "PTS/GP", "TOP PLAYERS")
	for id, a := range aggs {
		if a.n == 0 {
			table.Append(ClusterLabel(id), "0", "—", "—", "—", "")
			continue
		}
		sort.SliceStable(a.members, func(i, j int) bool {
			return a.members[i].DisplayFields[model.StatPoints] > a.members[j].DisplayFields[model.StatPoints]
		})
		var ppg float64
		names := make([]string, 0, 3)
		for i, m := range a.members {
			if gp := m.DisplayFields[model.StatGamesPlayed]; gp > 0 {
				ppg += m.DisplayFields[model.StatPoints] / gp
			}
			if i < 3 {
				names = append(names, m.Name)
			}
		}
		table.Append(
			ClusterLabel(id),
			strconv.Itoa(a.n),
			fmt.Sprintf("%.2f", a.sx/float64(a.n)),
			fmt.Sprintf("%.2f", a.sy/float64(a.n)),
			fmt.Sprintf("%.2f", ppg/float64(a.n)),
			strings.Join(names, ", "),
		)
	}
	table.Render()
}

// PrintPoints prints every player's projected position and cluster.
func PrintPoints(w io.Writer, points []analysis.PlotRecord) {
	table := newTable(w)
	table.Header("NAME", "TEAM", "GP", "G", "A", "PTS", "X", "Y", "CLUSTER")
	for _, p := range points {
		x, y := coord(p.Coordinates, 0), coord(p.Coordinates, 1)
		table.Append(
			p.Name,
			p.Team,
			fmt.Sprintf("%.0f", p.DisplayFields[model.StatGamesPlayed]),
			fmt.Sprintf("%.0f", p.DisplayFields[model.StatGoals]),
			fmt.Sprintf("%.0f", p.DisplayFields[model.StatAssists]),
			fmt.Sprintf("%.0f", p.DisplayFields[model.StatPoints]),
			fmt.Sprintf("%.3f", x),
			fmt.Sprintf("%.3f", y),
			ClusterLabel(p.ClusterID),
		)
	}
	table.Render()
}

func coord(c []float64, i int) float64 {
	if i < len(c) {
		return c[i]
	}
	return 0
}

// PrintShooting prints the shooting-efficiency view sorted by goals.
func PrintShooting(w io.Writer, res *analysis.ShootingResult) {
	pts := append([]analysis.ShootingPoint(nil), res.Points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Goals > pts[j].Goals })

	fmt.Fprintf(w, "\nPlayers: %d  |  Mean shots/GP: %.2f  |  Mean SH%%: %.1f\n\n", len(pts), res.MeanX, res.MeanY)
	table := newTable(w)
	table.Header("NAME", "TEAM", "G", "A", "PTS", "SHOTS", "SHOTS/GP", "SH%", "PROFILE")
	for _, p := range pts {
		table.Append(
			p.Name,
			p.Team,
			fmt.Sprintf("%.0f", p.Goals),
			fmt.Sprintf("%.0f", p.Assists),
			fmt.Sprintf("%.0f", p.Points),
			fmt.Sprintf("%.0f", p.Shots),
			fmt.Sprintf("%.2f", p.X),
			fmt.Sprintf("%.1f%%", p.Y),
			p.Quadrant,
		)
	}
	table.Render()
}

// PrintSeasons prints stored seasons.
func PrintSeasons(w io.Writer, seasons []model.Season) {
	table := newTable(w)
	table.Header("SEASON", "PLAYERS", "FETCHED")
	for _, s := range seasons {
		table.Append(s.SeasonID, strconv.Itoa(s.PlayerCount), s.FetchedAt)
	}
	table.Render()
}

// PrintRuns prints stored analysis runs.
func PrintRuns(w io.Writer, runs []model.AnalysisRun) {
	table := newTable(w)
	table.Header("ID", "SEASON", "CREATED", "SEED", "K", "PLAYERS", "ITER", "CONVERGED")
	for _, r := range runs {
		table.Append(
			shortID(r.ID),
			r.SeasonID,
			r.CreatedAt,
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.Clusters),
			strconv.Itoa(r.Players),
			strconv.Itoa(r.Iterations),
			yesNo(r.Converged),
		)
	}
	table.Render()
}

// PrintStoredRun prints a stored run's header, loadings and points.
func PrintStoredRun(w io.Writer, run *model.AnalysisRun, points []model.AnalysisPoint, loadings []model.AnalysisLoading) {
	fmt.Fprintf(w, "\nRun: %s  |  Season: %s  |  Created: %s  |  Seed: %d\n",
		run.ID, run.SeasonID, run.CreatedAt, run.Seed)
	fmt.Fprintf(w, "Features: %s\n", strings.Join(run.Features, ", "))

	PrintSection(w, "Loadings")
	lt := newTable(w)
	lt.Header("COMPONENT", "RANK", "FEATURE", "|WEIGHT|")
	for _, l := range loadings {
		lt.Append(analysis.ComponentKey(l.Component), strconv.Itoa(l.Rank+1), l.Feature, fmt.Sprintf("%.3f", l.Weight))
	}
	lt.Render()

	PrintSection(w, "Players")
	pt := newTable(w)
	pt.Header("NAME", "TEAM", "X", "Y", "CLUSTER")
	for _, p := range points {
		pt.Append(p.Name, p.Team, fmt.Sprintf("%.3f", p.X), fmt.Sprintf("%.3f", p.Y), ClusterLabel(p.ClusterID))
	}
	pt.Render()
}

// PrintRawTable prints an arbitrary result set.
func PrintRawTable(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
