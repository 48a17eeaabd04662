package git

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return log
}

func TestNewRepoDefaultsCommand(t *testing.T) {
	r := NewRepo(testLog(), "/tmp/repo", "")

	assert.Equal(t, "git", r.command)
	assert.Equal(t, "/tmp/repo", r.Root())
}

func TestRunFailureIncludesCommandAndOutput(t *testing.T) {
	// A nonexistent git executable makes every command fail without
	// touching a real repository.
	r := NewRepo(testLog(), t.TempDir(), "definitely-not-a-git-binary")

	_, err := r.ResolveRevision(context.Background(), "HEAD")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-git-binary rev-parse --verify HEAD^{commit}")

	err = r.AddWorktree(context.Background(), "/tmp/wt", "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worktree add --detach")

	err = r.RemoveWorktree(context.Background(), "/tmp/wt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worktree remove --force")
}
