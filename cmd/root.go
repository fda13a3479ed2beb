package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-nhl-metrics/internal/analysis"
	"github.com/pable/go-nhl-metrics/internal/config"
	"github.com/pable/go-nhl-metrics/internal/logger"
	"github.com/pable/go-nhl-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg    = config.New()
	appLog = logger.NewDiscard()
)

var rootCmd = &cobra.Command{
	Use:   "nhlmetrics",
	Short: "NHL skater style analysis tool",
	Long: `Fetch NHL skater season stats and group players by playing style using
PCA and K-Means clustering.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $"+config.EnvConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(styleCmd)
	rootCmd.AddCommand(shootingCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadRuntime layers config, applies flag overrides and builds the logger.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		c.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	l, err := logger.NewStderr(c.LogLevel)
	if err != nil {
		return err
	}
	cfg, appLog = c, l
	appLog.Debug(cmd.Context(), "config loaded", logger.String("db", cfg.DBPath), logger.String("command", cmd.Name()))
	return nil
}

func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// resolveSeason returns flagValue, or the newest stored season when empty.
func resolveSeason(db *storage.DB, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	latest, err := db.LatestSeason()
	if err != nil {
		return "", fmt.Errorf("latest season: %w", err)
	}
	if latest == "" {
		return "", fmt.Errorf("no seasons stored yet; run 'nhlmetrics fetch' first")
	}
	return latest, nil
}

// analysisOptions builds pipeline options from the loaded config.
func analysisOptions() analysis.Options {
	return analysis.Options{
		Features:         append([]string(nil), cfg.Features...),
		MinGamesPlayed:   cfg.MinGamesPlayed,
		Components:       cfg.Components,
		Clusters:         cfg.Clusters,
		PowerIterations:  cfg.PowerIterations,
		KMeansIterations: cfg.KMeansIterations,
		Seed:             cfg.Seed,
	}
}
