package weighting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worklens/worklens/internal/port"
)

func syncFixture() *fakeStore {
	f := newFakeStore()
	f.addRepo("r1", "shop")
	f.addCommit("r1", "b1", "BILLING | Add invoice banner", 100)
	f.addCommit("r1", "b2", "BILLING | Fix rounding", 100)
	f.addCommit("r1", "b3", "BILLING | Reverted thing", 0) // zeroed by revert detection
	f.addCommit("r1", "c1", "CS | Handle escalation", 100)
	for i := range f.commits {
		f.commits[i].Category = Candidate(f.commits[i].Subject)
	}
	f.addCategory("BILLING", 60)
	f.addCategory("CS", 100)
	return f
}

func TestSyncPassPropagatesWeight(t *testing.T) {
	f := syncFixture()

	pass := NewSyncPass(f)
	summary, err := pass.Run(context.Background(), port.PassRequest{})
	require.NoError(t, err)

	assert.Equal(t, 60, f.commitByHash("b1").Weight)
	assert.Equal(t, 60, f.commitByHash("b2").Weight)
	assert.Equal(t, 2, summary.Mutated)
}

func TestSyncPassNeverResurrectsRevertedCommits(t *testing.T) {
	f := syncFixture()

	pass := NewSyncPass(f)
	summary, err := pass.Run(context.Background(), port.PassRequest{})
	require.NoError(t, err)

	// b3 was reverted; weight zero is sticky with respect to sync.
	assert.Equal(t, 0, f.commitByHash("b3").Weight)

	require.NotEmpty(t, summary.Categories)
	billing := summary.Categories[0] // most commits first
	assert.Equal(t, "BILLING", billing.Name)
	assert.Equal(t, 60, billing.Weight)
	assert.Equal(t, 2, billing.Updated)
	assert.Equal(t, 1, billing.SkippedReverted)
}

func TestSyncPassSkipsCategoryWithNoLiveCommits(t *testing.T) {
	f := newFakeStore()
	f.addRepo("r1", "shop")
	f.addCommit("r1", "b1", "BILLING | Reverted thing", 0)
	f.commits[0].Category = "BILLING"
	f.addCategory("BILLING", 60)
	f.addCategory("GHOST", 40) // no commits at all

	pass := NewSyncPass(f)
	summary, err := pass.Run(context.Background(), port.PassRequest{})
	require.NoError(t, err)

	// Neither category gets a stats entry, and nothing is written.
	assert.Empty(t, summary.Categories)
	assert.Equal(t, 0, summary.Mutated)
	assert.Equal(t, 0, f.writes)
	assert.Equal(t, 0, f.commitByHash("b1").Weight)
}

func TestSyncPassIdempotent(t *testing.T) {
	f := syncFixture()

	pass := NewSyncPass(f)
	_, err := pass.Run(context.Background(), port.PassRequest{})
	require.NoError(t, err)
	writesAfterFirst := f.writes

	// A dry-run right after a live run plans zero writes.
	summary, err := pass.Run(context.Background(), port.PassRequest{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Mutated)
	assert.Equal(t, writesAfterFirst, f.writes)
}

func TestSyncPassDryRunMatchesLiveDecisions(t *testing.T) {
	dry := syncFixture()
	live := syncFixture()

	drySummary, err := NewSyncPass(dry).Run(context.Background(), port.PassRequest{DryRun: true})
	require.NoError(t, err)
	liveSummary, err := NewSyncPass(live).Run(context.Background(), port.PassRequest{})
	require.NoError(t, err)

	assert.Equal(t, liveSummary.Mutated, drySummary.Mutated)
	assert.Equal(t, liveSummary.Skipped, drySummary.Skipped)
	assert.Equal(t, liveSummary.Categories, drySummary.Categories)
	assert.Equal(t, 0, dry.writes)
	assert.Equal(t, 100, dry.commitByHash("b1").Weight)
}

func TestSyncPassRepoFilter(t *testing.T) {
	f := syncFixture()
	f.addRepo("r2", "blog")
	f.addCommit("r2", "x1", "BILLING | Other repo", 100)
	f.commits[len(f.commits)-1].Category = "BILLING"

	pass := NewSyncPass(f)
	summary, err := pass.Run(context.Background(), port.PassRequest{RepoFilter: "blog"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Mutated)
	assert.Equal(t, 60, f.commitByHash("x1").Weight)
	// Commits outside the scope are untouched.
	assert.Equal(t, 100, f.commitByHash("b1").Weight)

	_, err = pass.Run(context.Background(), port.PassRequest{RepoFilter: "nope"})
	assert.ErrorIs(t, err, port.ErrRepoNotFound)
}

func TestSyncPassStatsSortedByCommitCount(t *testing.T) {
	f := syncFixture() // BILLING has 3 commits (2 live), CS has 1

	summary, err := NewSyncPass(f).Run(context.Background(), port.PassRequest{DryRun: true})
	require.NoError(t, err)

	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "BILLING", summary.Categories[0].Name)
	assert.Equal(t, "CS", summary.Categories[1].Name)
	assert.GreaterOrEqual(t, summary.Categories[0].Commits, summary.Categories[1].Commits)
}
