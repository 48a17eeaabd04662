// Package measure drives one revision end to end: isolate it, build it,
// and collect the section sizes of its library artifacts.
package measure

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"github.com/mbedutils/codesize/pkg/git"
	"github.com/mbedutils/codesize/pkg/profile"
	"github.com/mbedutils/codesize/pkg/size"
	"github.com/mbedutils/codesize/pkg/workspace"
)

// BuildRunner executes a build plan inside a checkout. Implemented by
// builder.Builder.
type BuildRunner interface {
	Build(ctx context.Context, dir string, plan *profile.Plan) error
}

// sizeFunc runs the size tool against one archive and returns its raw
// tabular output. Swapped out in tests.
type sizeFunc func(ctx context.Context, dir, command, archive string) (string, error)

// Pipeline measures one revision at a time. Measurements are strictly
// sequential; the workspace acquired for a revision is torn down before
// Measure returns, on the success path and on every failure path.
type Pipeline struct {
	log         logrus.FieldLogger
	git         git.Client
	builder     BuildRunner
	sizeCommand string
	runSize     sizeFunc
}

// NewPipeline creates a Pipeline using command (usually "size") as the
// size-reporting tool.
func NewPipeline(log logrus.FieldLogger, client git.Client, b BuildRunner, command string) *Pipeline {
	if command == "" {
		command = "size"
	}

	return &Pipeline{
		log:         log.WithField("component", "measure"),
		git:         client,
		builder:     b,
		sizeCommand: command,
		runSize:     runSizeTool,
	}
}

// Measure builds revision under the given plan and returns its report
// set. Whatever happens, a temporary workspace created for the revision
// is released exactly once before Measure returns, so a failed build
// never leaves an orphaned checkout behind.
func (p *Pipeline) Measure(ctx context.Context, revision string, plan *profile.Plan) (*size.ReportSet, error) {
	log := p.log.WithField("revision", revision)

	if revision == workspace.RevisionCurrent {
		log.Info("Measuring code size in current work directory")
	} else {
		log.Info("Measuring code size")
	}

	ws, err := workspace.Acquire(ctx, p.log, p.git, revision)
	if err != nil {
		return nil, err
	}

	set, err := p.measureIn(ctx, ws, revision, plan)
	if err != nil {
		if relErr := ws.Release(ctx); relErr != nil {
			log.WithError(relErr).Warn("Failed to release workspace after error")
		}

		return nil, err
	}

	if err := ws.Release(ctx); err != nil {
		return nil, err
	}

	return set, nil
}

// measureIn builds the library in the workspace and parses a size report
// for each artifact.
func (p *Pipeline) measureIn(ctx context.Context, ws *workspace.Workspace, revision string, plan *profile.Plan) (*size.ReportSet, error) {
	if err := p.builder.Build(ctx, ws.Path, plan); err != nil {
		return nil, err
	}

	set := size.NewReportSet(revision)

	for _, artifact := range size.Artifacts {
		output, err := p.runSize(ctx, ws.Path, p.sizeCommand, artifact.ArchivePath())
		if err != nil {
			return nil, fmt.Errorf("measuring %s: %w", artifact, err)
		}

		report, err := size.ParseReport(output)
		if err != nil {
			return nil, fmt.Errorf("parsing %s size report: %w", artifact, err)
		}

		p.log.WithFields(logrus.Fields{
			"revision": revision,
			"artifact": artifact,
			"objects":  report.Len(),
			"total":    units.HumanSize(float64(report.Sum().Total)),
		}).Info("Measured artifact")

		set.SetArtifact(artifact, report)
	}

	return set, nil
}

// runSizeTool invokes the external size tool against an archive inside
// the checkout.
func runSizeTool(ctx context.Context, dir, command, archive string) (string, error) {
	//nolint:gosec // Command and archive path come from fixed tables.
	cmd := exec.CommandContext(ctx, command, "-t", archive)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s -t %s: %w (output: %s)",
			command, archive, err, strings.TrimSpace(string(output)))
	}

	return string(output), nil
}
