package main

import (
	"github.com/spf13/cobra"

	"github.com/mbedutils/codesize/pkg/workspace"
)

var measureRev string

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure library code size for a single revision",
	Long: `Build the library at one revision and write its per-object size
records CSV. When no revision is given, the current work directory is
measured in place.`,
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&measureRev, "rev", "",
		"revision to measure (default: current work directory)")
	addProfileFlags(measureCmd)
}

func runMeasure(cmd *cobra.Command, args []string) error {
	setup, err := newMeasurementSetup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	revision := workspace.RevisionCurrent
	if measureRev != "" {
		revision, err = setup.repo.ResolveRevision(ctx, measureRev)
		if err != nil {
			return err
		}
	}

	set, err := setup.pipeline.Measure(ctx, revision, setup.plan)
	if err != nil {
		return err
	}

	path, err := setup.writer.WriteRecords(setup.cfg.Compare.RecordsDir, set, buildCfg)
	if err != nil {
		return err
	}

	log.WithField("path", path).Info("Measurement completed")

	return nil
}
