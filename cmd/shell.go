package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/report"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("nhlmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	season := ""
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if season != "" {
			cPrompt.Print("nhlmetrics:" + season)
		} else {
			cPrompt.Print("nhlmetrics")
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "season":
			if len(args) == 0 {
				season = ""
				cMuted.Println("using the newest stored season")
				continue
			}
			season = args[0]
		case "style":
			shellStyle(cmd, db, season, args)
		case "shooting":
			shellShooting(db, season)
		case "runs":
			shellRuns(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <run-prefix>")
				continue
			}
			if err := showRun(os.Stdout, db, args[0]); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list stored seasons"},
		{"season [id]", "pin a season (no id: newest stored)"},
		{"style [k] [seed]", "cluster skaters by playing style"},
		{"shooting", "shot volume vs shooting percentage"},
		{"runs", "list saved analysis runs"},
		{"show <run-prefix>", "show a saved run"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	seasons, err := db.ListSeasons()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(seasons) == 0 {
		cMuted.Println("No seasons stored yet.")
		return
	}
	report.PrintSeasons(os.Stdout, seasons)
}

func shellStyle(cmd *cobra.Command, db *storage.DB, season string, args []string) {
	opts := analysisOptions()
	if len(args) > 0 {
		k, err := strconv.Atoi(args[0])
		if err != nil || k < 1 {
			cError.Fprintf(os.Stderr, "invalid k %q\n", args[0])
			return
		}
		opts.Clusters = k
	}
	if len(args) > 1 {
		seed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			cError.Fprintf(os.Stderr, "invalid seed %q\n", args[1])
			return
		}
		opts.Seed = seed
	}

	id, err := resolveSeason(db, season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	res, err := analyzeSeason(cmd, db, id, opts)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintRunHeader(os.Stdout, id, res)
	report.PrintSection(os.Stdout, "Component loadings")
	report.PrintLoadings(os.Stdout, res.Loadings)
	report.PrintSection(os.Stdout, "Clusters")
	report.PrintClusters(os.Stdout, res)
}

func shellShooting(db *storage.DB, season string) {
	id, err := resolveSeason(db, season)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	records, err := db.GetSkaterRecords(id)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	res, err := analysis.Shooting(records, cfg.MinGamesPlayed)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintShooting(os.Stdout, res)
}

func shellRuns(db *storage.DB) {
	runs, err := db.ListAnalysisRuns()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No saved runs.")
		return
	}
	report.PrintRuns(os.Stdout, runs)
}
