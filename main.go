// Package main is the entry point for the nhlmetrics CLI tool, which fetches
// NHL skater season stats and groups players by playing style.
package main

import "github.com/pable/go-nhl-metrics/cmd"

func main() {
	cmd.Execute()
}
