package port

import (
	"context"

	"github.com/worklens/worklens/internal/domain"
)

// Store is the read side of the commit store as the engine passes see it.
// A repoID of "" means the whole store (all repositories).
type Store interface {
	// FindRepository resolves a repository by name. Returns ErrRepoNotFound
	// if no such repository exists.
	FindRepository(ctx context.Context, name string) (*domain.Repository, error)

	// ListCommits returns every commit in scope, oldest first.
	ListCommits(ctx context.Context, repoID string) ([]domain.Commit, error)

	// ListUncategorized returns commits in scope with no category yet.
	ListUncategorized(ctx context.Context, repoID string) ([]domain.Commit, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// CategoryTally splits the category's commits in scope by weight state
	// relative to targetWeight.
	CategoryTally(ctx context.Context, name string, targetWeight int, repoID string) (domain.CategoryTally, error)

	// Begin opens the write transaction a live pass wraps its mutations in.
	// Dry-run passes never call it.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is the write side of a single pass. Either Commit or Rollback must be
// called exactly once.
type Tx interface {
	// SetCommitCategory assigns a category label to one commit.
	SetCommitCategory(ctx context.Context, commitID, category string) error

	// SetCommitWeight sets one commit's weight.
	SetCommitWeight(ctx context.Context, commitID string, weight int) error

	// BumpCategoryUsage inserts the category with usage_count=1 or atomically
	// increments its counter. Best-effort bookkeeping for the extractor.
	BumpCategoryUsage(ctx context.Context, name string) error

	// ApplyCategoryWeight bulk-updates every commit of the category whose
	// weight is positive and differs from weight. Reverted commits
	// (weight=0) are never touched. Returns the number of rows updated.
	ApplyCategoryWeight(ctx context.Context, name string, weight int, repoID string) (int64, error)

	Commit() error
	Rollback() error
}
