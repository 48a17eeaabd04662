package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mbedutils/codesize/pkg/builder"
	"github.com/mbedutils/codesize/pkg/compare"
	"github.com/mbedutils/codesize/pkg/config"
	"github.com/mbedutils/codesize/pkg/fsutil"
	"github.com/mbedutils/codesize/pkg/git"
	"github.com/mbedutils/codesize/pkg/measure"
	"github.com/mbedutils/codesize/pkg/profile"
	"github.com/mbedutils/codesize/pkg/report"
	"github.com/mbedutils/codesize/pkg/size"
	"github.com/mbedutils/codesize/pkg/store"
	"github.com/mbedutils/codesize/pkg/sysinfo"
	"github.com/mbedutils/codesize/pkg/workspace"
)

var (
	oldRev     string
	newRev     string
	archFlag   string
	buildCfg   string
	armccFlag  string
	resultDir  string
	recordsDir string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare library code size between two git revisions",
	Long: `Build the library at two revisions, measure the section sizes of each
compiled object, and write a per-object comparison CSV. The old revision
is measured and torn down before the new one begins. When no new
revision is given, the current work directory is measured in place,
including uncommitted changes.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&oldRev, "old-rev", "o", "", "old revision for comparison")
	compareCmd.Flags().StringVarP(&newRev, "new-rev", "n", "",
		"new revision for comparison (default: current work directory)")
	addProfileFlags(compareCmd)
	compareCmd.Flags().StringVarP(&resultDir, "result-dir", "r", "",
		"directory where the comparison result is stored")

	if err := compareCmd.MarkFlagRequired("old-rev"); err != nil {
		panic(err)
	}
}

// addProfileFlags registers the flags shared by compare and measure.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&archFlag, "arch", "a", string(profile.ArchX86),
		"target architecture (x86, aarch32, aarch64)")
	cmd.Flags().StringVarP(&buildCfg, "build-config", "c", string(profile.ConfigDefault),
		"library configuration (default, full, baremetal, tfm-medium)")
	cmd.Flags().StringVar(&armccFlag, "armcc", "", "path of the armclang cross compiler")
	cmd.Flags().StringVar(&recordsDir, "records-dir", "",
		"directory where per-revision size records are stored")
}

// measurementSetup is everything a measurement run needs, assembled from
// the config file and command-line flags.
type measurementSetup struct {
	cfg      *config.Config
	prof     profile.Profile
	plan     *profile.Plan
	repo     *git.Repo
	pipeline *measure.Pipeline
	writer   *report.Writer
}

// newMeasurementSetup loads configuration, resolves the build profile
// (failing fast on unsupported pairs, before anything external runs) and
// wires up the pipeline.
func newMeasurementSetup() (*measurementSetup, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if resultDir != "" {
		cfg.Compare.ResultsDir = resultDir
	}

	if recordsDir != "" {
		cfg.Compare.RecordsDir = recordsDir
	}

	if armccFlag != "" {
		cfg.Build.ArmCC = armccFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	arch, err := profile.ParseArch(archFlag)
	if err != nil {
		return nil, err
	}

	buildConfig, err := profile.ParseBuildConfig(buildCfg)
	if err != nil {
		return nil, err
	}

	prof := profile.Profile{
		Arch:   arch,
		Config: buildConfig,
		ArmCC:  cfg.Build.ArmCC,
	}

	plan, err := prof.Resolve()
	if err != nil {
		return nil, err
	}

	owner, err := fsutil.ParseOwner(cfg.Compare.ResultsOwner)
	if err != nil {
		return nil, fmt.Errorf("parsing results_owner: %w", err)
	}

	repo := git.NewRepo(log, ".", cfg.Build.GitCommand)
	pipeline := measure.NewPipeline(log, repo, builder.NewBuilder(log), cfg.Build.SizeCommand)

	return &measurementSetup{
		cfg:      cfg,
		prof:     prof,
		plan:     plan,
		repo:     repo,
		pipeline: pipeline,
		writer:   report.NewWriter(log, owner),
	}, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	return ctx, cancel
}

func runCompare(cmd *cobra.Command, args []string) error {
	setup, err := newMeasurementSetup()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	oldRevision, err := setup.repo.ResolveRevision(ctx, oldRev)
	if err != nil {
		return err
	}

	newRevision := workspace.RevisionCurrent
	if newRev != "" {
		newRevision, err = setup.repo.ResolveRevision(ctx, newRev)
		if err != nil {
			return err
		}
	}

	// The old revision is fully measured and torn down before the new one
	// begins.
	oldSet, err := setup.pipeline.Measure(ctx, oldRevision, setup.plan)
	if err != nil {
		return err
	}

	if _, err := setup.writer.WriteRecords(setup.cfg.Compare.RecordsDir, oldSet, buildCfg); err != nil {
		return err
	}

	newSet, err := setup.pipeline.Measure(ctx, newRevision, setup.plan)
	if err != nil {
		return err
	}

	if _, err := setup.writer.WriteRecords(setup.cfg.Compare.RecordsDir, newSet, buildCfg); err != nil {
		return err
	}

	log.Info("Generating comparison results")

	diffs := compare.Diff(oldSet, newSet)

	path, err := setup.writer.WriteComparison(
		setup.cfg.Compare.ResultsDir, buildCfg, archFlag, oldRevision, newRevision, diffs,
	)
	if err != nil {
		return err
	}

	log.WithField("path", path).Info("Comparison completed")

	if setup.cfg.History.Enabled {
		recordRunHistory(ctx, setup, oldSet, newSet)
	}

	return nil
}

// recordRunHistory saves the run to the history database. History is an
// auxiliary record: failures are warnings, never comparison failures.
func recordRunHistory(ctx context.Context, setup *measurementSetup, oldSet, newSet *size.ReportSet) {
	s := store.NewStore(log, setup.cfg.History.SQLitePath)
	if err := s.Start(ctx); err != nil {
		log.WithError(err).Warn("Failed to open history database")

		return
	}

	defer func() {
		if err := s.Stop(); err != nil {
			log.WithError(err).Warn("Failed to close history database")
		}
	}()

	info := sysinfo.Collect(ctx, log)

	run := &store.Run{
		OldRevision: oldSet.Revision,
		NewRevision: newSet.Revision,
		Arch:        string(setup.prof.Arch),
		Config:      string(setup.prof.Config),
		Hostname:    info.Hostname,
		OS:          info.OS,
		Platform:    info.Platform,
		Kernel:      info.KernelVersion,
		CPUModel:    info.CPUModel,
		Cores:       info.Cores,
	}
	run.Measurements = append(
		store.MeasurementsFromReportSet(oldSet),
		store.MeasurementsFromReportSet(newSet)...,
	)

	if err := s.SaveRun(ctx, run); err != nil {
		log.WithError(err).Warn("Failed to record run history")

		return
	}

	log.WithField("run_id", run.ID).Info("Run recorded in history database")
}
