// Package weighting implements the commit weighting and categorization
// engine: the categorize, reverts and sync-weights passes plus the category
// validator they share. Every pass is idempotent and supports dry-run.
package weighting

import (
	"context"

	"github.com/google/uuid"

	"github.com/worklens/worklens/internal/port"
)

func newSummary(pass string, req port.PassRequest) *port.Summary {
	return &port.Summary{
		RunID:      uuid.NewString(),
		Pass:       pass,
		DryRun:     req.DryRun,
		RepoFilter: req.RepoFilter,
	}
}

// resolveScope maps an optional repository name filter to a repository ID.
// An empty filter means all repositories.
func resolveScope(ctx context.Context, store port.Store, repoFilter string) (string, error) {
	if repoFilter == "" {
		return "", nil
	}
	repo, err := store.FindRepository(ctx, repoFilter)
	if err != nil {
		return "", err
	}
	return repo.ID, nil
}
