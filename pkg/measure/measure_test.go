package measure

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbedutils/codesize/pkg/profile"
	"github.com/mbedutils/codesize/pkg/size"
	"github.com/mbedutils/codesize/pkg/workspace"
)

const fakeSizeOutput = `   text	   data	    bss	    dec	    hex	filename
    100	      0	      0	    100	     64	aes.o (ex archive)
`

// fakeGit records worktree lifecycle calls.
type fakeGit struct {
	root    string
	added   []string
	removed []string
}

func (f *fakeGit) ResolveRevision(_ context.Context, ref string) (string, error) {
	return ref, nil
}

func (f *fakeGit) AddWorktree(_ context.Context, path, _ string) error {
	f.added = append(f.added, path)

	return nil
}

func (f *fakeGit) RemoveWorktree(_ context.Context, path string) error {
	f.removed = append(f.removed, path)

	return nil
}

func (f *fakeGit) Root() string {
	return f.root
}

// fakeBuilder optionally fails every build.
type fakeBuilder struct {
	err    error
	builds int
}

func (f *fakeBuilder) Build(_ context.Context, _ string, _ *profile.Plan) error {
	f.builds++

	return f.err
}

func testLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return log
}

func newTestPipeline(g *fakeGit, b *fakeBuilder, sizeOut string, sizeErr error) *Pipeline {
	p := NewPipeline(testLog(), g, b, "size")
	p.runSize = func(_ context.Context, _, _, _ string) (string, error) {
		return sizeOut, sizeErr
	}

	return p
}

func plan(t *testing.T) *profile.Plan {
	t.Helper()

	resolved, err := profile.Profile{Arch: profile.ArchX86, Config: profile.ConfigDefault}.Resolve()
	require.NoError(t, err)

	return resolved
}

func TestMeasureSuccessReleasesWorkspace(t *testing.T) {
	g := &fakeGit{root: t.TempDir()}
	b := &fakeBuilder{}
	p := newTestPipeline(g, b, fakeSizeOutput, nil)

	set, err := p.Measure(context.Background(), "abc123", plan(t))
	require.NoError(t, err)

	require.Len(t, g.added, 1)
	require.Equal(t, g.added, g.removed)
	assert.Equal(t, 1, b.builds)

	for _, artifact := range size.Artifacts {
		report := set.Artifact(artifact)
		require.NotNil(t, report)

		s, ok := report.Get("aes.o")
		require.True(t, ok)
		assert.Equal(t, int64(100), s.Total)
	}
}

func TestMeasureBuildFailureReleasesWorkspaceOnce(t *testing.T) {
	g := &fakeGit{root: t.TempDir()}
	b := &fakeBuilder{err: errors.New("exit status 2")}
	p := newTestPipeline(g, b, fakeSizeOutput, nil)

	_, err := p.Measure(context.Background(), "abc123", plan(t))
	require.Error(t, err)

	require.Len(t, g.added, 1)
	assert.Equal(t, g.added, g.removed)
}

func TestMeasureSizeToolFailureReleasesWorkspace(t *testing.T) {
	g := &fakeGit{root: t.TempDir()}
	b := &fakeBuilder{}
	p := newTestPipeline(g, b, "", errors.New("exit status 1"))

	_, err := p.Measure(context.Background(), "abc123", plan(t))
	require.Error(t, err)
	assert.Equal(t, g.added, g.removed)
}

func TestMeasureParseFailureReleasesWorkspace(t *testing.T) {
	g := &fakeGit{root: t.TempDir()}
	b := &fakeBuilder{}
	p := newTestPipeline(g, b, "header\nnot a size line\n", nil)

	_, err := p.Measure(context.Background(), "abc123", plan(t))
	require.Error(t, err)

	var parseErr *size.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, g.added, g.removed)
}

func TestMeasureCurrentNeverTouchesWorktrees(t *testing.T) {
	g := &fakeGit{root: t.TempDir()}
	b := &fakeBuilder{}
	p := newTestPipeline(g, b, fakeSizeOutput, nil)

	set, err := p.Measure(context.Background(), workspace.RevisionCurrent, plan(t))
	require.NoError(t, err)

	assert.Empty(t, g.added)
	assert.Empty(t, g.removed)
	assert.Equal(t, workspace.RevisionCurrent, set.Revision)
}
