package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbedutils/codesize/pkg/config"
	"github.com/mbedutils/codesize/pkg/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded comparison runs",
	Long:  `List the most recent comparison runs recorded in the history database.`,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	s := store.NewStore(log, cfg.History.SQLitePath)
	if err := s.Start(ctx); err != nil {
		return err
	}

	defer func() {
		if err := s.Stop(); err != nil {
			log.WithError(err).Warn("Failed to close history database")
		}
	}()

	runs, err := s.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		log.Info("No recorded runs")

		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-8s %-10s %s -> %s (%s)\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Arch, run.Config,
			shortRevision(run.OldRevision), shortRevision(run.NewRevision),
			run.Hostname)
	}

	return nil
}

// shortRevision abbreviates full commit IDs for display.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}

	return rev
}
