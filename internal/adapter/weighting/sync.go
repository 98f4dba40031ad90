package weighting

import (
	"context"
	"fmt"
	"sort"

	"github.com/worklens/worklens/internal/port"
)

// SyncPass propagates administrator-set category weights onto commits.
// Last-writer-wins at category granularity, with one hard rule: a commit at
// weight zero was reverted and is never raised again by synchronization.
// Revert detection must run before this pass in a pipeline.
type SyncPass struct {
	store port.Store
}

// NewSyncPass creates the sync-weights pass.
func NewSyncPass(store port.Store) *SyncPass {
	return &SyncPass{store: store}
}

func (p *SyncPass) Name() string { return "sync-weights" }
func (p *SyncPass) Description() string {
	return "Propagates per-category weights onto non-reverted commits"
}

// Run walks the categories in name order and issues one bulk update per
// category that has live commits out of sync with its weight. Idempotent:
// a second run right after a live run updates nothing.
func (p *SyncPass) Run(ctx context.Context, req port.PassRequest) (*port.Summary, error) {
	repoID, err := resolveScope(ctx, p.store, req.RepoFilter)
	if err != nil {
		return nil, err
	}

	categories, err := p.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	summary := newSummary(p.Name(), req)

	var tx port.Tx
	if !req.DryRun {
		tx, err = p.store.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin sync-weights pass: %w", err)
		}
		defer tx.Rollback() // no-op once committed
	}

	for _, cat := range categories {
		tally, err := p.store.CategoryTally(ctx, cat.Name, cat.Weight, repoID)
		if err != nil {
			return nil, fmt.Errorf("tally category %s: %w", cat.Name, err)
		}
		if tally.Live() == 0 {
			// Nothing this pass may touch; not even a stats entry.
			continue
		}

		updated := tally.OutOfSync
		if !req.DryRun && updated > 0 {
			n, err := tx.ApplyCategoryWeight(ctx, cat.Name, cat.Weight, repoID)
			if err != nil {
				return nil, fmt.Errorf("apply weight for category %s: %w", cat.Name, err)
			}
			updated = int(n)
		}

		summary.Considered += tally.Live() + tally.Reverted
		summary.Mutated += updated
		summary.Skipped += tally.InSync + tally.Reverted
		summary.Categories = append(summary.Categories, port.CategoryStat{
			Name:            cat.Name,
			Weight:          cat.Weight,
			Commits:         tally.Live(),
			Updated:         updated,
			SkippedReverted: tally.Reverted,
		})
	}

	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		return a.Name < b.Name
	})

	if !req.DryRun {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit sync-weights pass: %w", err)
		}
	}
	return summary, nil
}
