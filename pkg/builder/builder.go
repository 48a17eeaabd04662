// Package builder sequences the pre-build, config-tweak and build
// commands inside a checkout.
package builder

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mbedutils/codesize/pkg/profile"
)

// CommandError reports a failed external command together with its
// captured combined stdout/stderr.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// runFunc executes argv in dir and returns its combined output. Swapped
// out in tests.
type runFunc func(ctx context.Context, dir string, argv []string) (string, error)

// Builder runs the build steps for one checkout. Any step failure aborts
// the whole build; there is no retry and no partial continuation.
type Builder struct {
	log logrus.FieldLogger
	run runFunc
}

// NewBuilder creates a Builder.
func NewBuilder(log logrus.FieldLogger) *Builder {
	return &Builder{
		log: log.WithField("component", "builder"),
		run: runCommand,
	}
}

// Build executes the plan inside dir: pre-build command, config tweaks,
// then the build command. The first failure is returned as a
// *CommandError; the caller is responsible for tearing down the checkout.
func (b *Builder) Build(ctx context.Context, dir string, plan *profile.Plan) error {
	if len(plan.PreBuild) > 0 {
		b.log.WithField("command", strings.Join(plan.PreBuild, " ")).Info("Running pre-build command")

		if err := b.runStep(ctx, dir, plan.PreBuild); err != nil {
			return err
		}
	}

	if !plan.Tweaks.Empty() {
		if err := b.applyTweaks(ctx, dir, plan.Tweaks); err != nil {
			return err
		}
	}

	b.log.WithField("command", strings.Join(plan.Build, " ")).Info("Building library")

	return b.runStep(ctx, dir, plan.Build)
}

// applyTweaks applies each config mutation as an independent invocation
// of the checkout's config script. The first failure aborts the batch;
// already-applied options are not rolled back, which is fine because a
// failed checkout is discarded wholesale.
func (b *Builder) applyTweaks(ctx context.Context, dir string, tweaks profile.ConfigTweaks) error {
	b.log.WithFields(logrus.Fields{
		"set":   len(tweaks.Set),
		"unset": len(tweaks.Unset),
	}).Info("Tweaking build configuration")

	for _, option := range tweaks.Set {
		if err := b.runStep(ctx, dir, []string{"./scripts/config.py", "set", option}); err != nil {
			return err
		}
	}

	for _, option := range tweaks.Unset {
		if err := b.runStep(ctx, dir, []string{"./scripts/config.py", "unset", option}); err != nil {
			return err
		}
	}

	return nil
}

// runStep runs one command, logging the command text and its output on
// failure before surfacing the error.
func (b *Builder) runStep(ctx context.Context, dir string, argv []string) error {
	output, err := b.run(ctx, dir, argv)
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"command": strings.Join(argv, " "),
			"output":  output,
		}).Error("Command failed")

		return &CommandError{Args: argv, Output: output, Err: err}
	}

	return nil
}

// runCommand spawns argv directly, without a shell, and captures combined
// stdout/stderr.
func runCommand(ctx context.Context, dir string, argv []string) (string, error) {
	//nolint:gosec // Command args come from the resolved build plan.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()

	return string(output), err
}
