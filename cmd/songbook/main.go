// Package main provides the songbook CLI: import categories, query songs and
// manage the setlist against the local catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/songbook/internal/bootstrap"
	"github.com/cesargomez89/songbook/internal/config"
	"github.com/cesargomez89/songbook/internal/logger"
	"github.com/cesargomez89/songbook/internal/store"
)

var (
	// dbPath is set by the --db flag and overrides DB_PATH.
	dbPath string

	// jsonOutput is set by the --json flag.
	jsonOutput bool

	// services is initialized by the root command before any subcommand runs.
	services *bootstrap.Services
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "songbook",
	Short: "Songbook manages a local lyrics catalog",
	Long: `Songbook keeps a local copy of a remote lyrics repository. Categories are
imported from XML payloads, searched offline and collected into a setlist.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if services == nil {
			return nil
		}
		err := services.Close()
		services = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $DB_PATH or songbook.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(songsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setlistCmd)
	rootCmd.AddCommand(syncCmd)
}

// initServices loads config and opens the catalog.
func initServices(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs go to stderr so stdout stays parseable.
	logCfg := logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}
	if cfg.LogFile == "" {
		logCfg.Output = os.Stderr
	}
	log := logger.New(logCfg)

	if services != nil {
		_ = services.Close()
		services = nil
	}
	svc, err := bootstrap.New(cfg, store.NewOpener(cfg.DBPath), log)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	services = svc
	return nil
}
