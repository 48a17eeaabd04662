// Package git wraps the handful of git operations used to isolate and
// resolve revisions: rev-parse, worktree add and worktree remove.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client is the version-control surface the measurement pipeline depends
// on. Implemented by Repo; tests substitute fakes.
type Client interface {
	// ResolveRevision resolves a ref to a full commit ID.
	ResolveRevision(ctx context.Context, ref string) (string, error)
	// AddWorktree creates a detached worktree of revision at path.
	AddWorktree(ctx context.Context, path, revision string) error
	// RemoveWorktree forcibly removes the worktree at path.
	RemoveWorktree(ctx context.Context, path string) error
	// Root returns the repository root directory.
	Root() string
}

// Repo runs git commands against one repository root.
type Repo struct {
	log     logrus.FieldLogger
	root    string
	command string
}

// Compile-time interface check.
var _ Client = (*Repo)(nil)

// NewRepo creates a Repo rooted at dir, invoking git via command
// (usually just "git").
func NewRepo(log logrus.FieldLogger, dir, command string) *Repo {
	if command == "" {
		command = "git"
	}

	return &Repo{
		log:     log.WithField("component", "git"),
		root:    dir,
		command: command,
	}
}

// Root returns the repository root directory.
func (r *Repo) Root() string {
	return r.root
}

// ResolveRevision resolves a ref to a full commit ID via rev-parse.
func (r *Repo) ResolveRevision(ctx context.Context, ref string) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolving revision %q: %w", ref, err)
	}

	return strings.TrimSpace(out), nil
}

// AddWorktree creates a detached worktree of revision at path.
func (r *Repo) AddWorktree(ctx context.Context, path, revision string) error {
	r.log.WithFields(logrus.Fields{
		"path":     path,
		"revision": revision,
	}).Info("Creating git worktree")

	if _, err := r.run(ctx, "worktree", "add", "--detach", path, revision); err != nil {
		return fmt.Errorf("creating worktree for %q: %w", revision, err)
	}

	return nil
}

// RemoveWorktree forcibly removes the worktree at path. Forced removal
// keeps cleanup from being blocked by modified or untracked files.
func (r *Repo) RemoveWorktree(ctx context.Context, path string) error {
	r.log.WithField("path", path).Info("Removing git worktree")

	if _, err := r.run(ctx, "worktree", "remove", "--force", path); err != nil {
		return fmt.Errorf("removing worktree %q: %w", path, err)
	}

	return nil
}

// run executes one git subcommand in the repository root and returns its
// combined output.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	//nolint:gosec // Command args are controlled by the application.
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Dir = r.root

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w (output: %s)",
			r.command, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return string(output), nil
}
