// Package workspace manages the isolated checkout a revision is built
// and measured in.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/mbedutils/codesize/pkg/git"
)

// RevisionCurrent is the sentinel revision meaning the live working tree.
// It gets no isolation and is never deleted by this package.
const RevisionCurrent = "current"

// Workspace is an exclusively owned checkout of one revision. A temporary
// workspace must be released exactly once; releasing a live-tree workspace
// is a no-op.
type Workspace struct {
	// Path is the checkout root commands run in.
	Path string

	// Revision the workspace is bound to.
	Revision string

	log       logrus.FieldLogger
	git       git.Client
	temporary bool
	released  bool
}

// Acquire obtains a workspace for revision. The sentinel RevisionCurrent
// yields the live working tree; any other revision gets a fresh detached
// worktree named after it under the repository root.
func Acquire(ctx context.Context, log logrus.FieldLogger, client git.Client, revision string) (*Workspace, error) {
	ws := &Workspace{
		Revision: revision,
		log:      log.WithField("component", "workspace"),
		git:      client,
	}

	if revision == RevisionCurrent {
		ws.Path = client.Root()
		ws.log.Info("Using current work directory")

		return ws, nil
	}

	path := filepath.Join(client.Root(), "temp-"+revision)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("worktree path %q already exists", path)
	}

	if err := client.AddWorktree(ctx, path, revision); err != nil {
		return nil, fmt.Errorf("acquiring workspace: %w", err)
	}

	ws.Path = path
	ws.temporary = true

	return ws, nil
}

// Release tears the workspace down. The live working tree is left alone;
// a temporary worktree is forcibly removed so that cleanup cannot be
// blocked by build products. Safe to call once per acquire on both the
// success and failure paths.
func (w *Workspace) Release(ctx context.Context) error {
	if !w.temporary || w.released {
		return nil
	}

	w.released = true

	if err := w.git.RemoveWorktree(ctx, w.Path); err != nil {
		return fmt.Errorf("releasing workspace: %w", err)
	}

	return nil
}

// Temporary reports whether the workspace owns a disposable checkout.
func (w *Workspace) Temporary() bool {
	return w.temporary
}
