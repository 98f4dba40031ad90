package weighting

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/worklens/worklens/internal/domain"
	"github.com/worklens/worklens/internal/port"
)

var (
	revertWordRe   = regexp.MustCompile(`(?i)\brevert\b`)
	unrevertWordRe = regexp.MustCompile(`(?i)\bunrevert\b`)

	// crossRefRe matches GitLab-style "(!123)" and GitHub-style "(#123)"
	// cross-reference tokens in a commit subject.
	crossRefRe = regexp.MustCompile(`\(([!#])(\d+)\)`)
)

// IsRevertSubject reports whether a subject marks a revert commit. Unrevert
// commits are explicitly excluded from revert processing.
func IsRevertSubject(subject string) bool {
	return revertWordRe.MatchString(subject) && !unrevertWordRe.MatchString(subject)
}

// CrossRefs extracts every normalized cross-reference identifier ("!123" or
// "#123") from a subject, in order of appearance. A revert commit may carry
// several, e.g. when it reverts a prior revert.
func CrossRefs(subject string) []string {
	var refs []string
	for _, m := range crossRefRe.FindAllStringSubmatch(subject, -1) {
		refs = append(refs, m[1]+m[2])
	}
	return refs
}

// RevertPass detects revert commits and zeroes the weight of both the revert
// and the commit(s) it reverts. Linkage is substring matching on raw subject
// text: ingestion only ever sees commit messages, never a forge API, so a
// reference that matches nothing is logged and skipped rather than failed.
type RevertPass struct {
	store port.Store
}

// NewRevertPass creates the reverts pass.
func NewRevertPass(store port.Store) *RevertPass {
	return &RevertPass{store: store}
}

func (p *RevertPass) Name() string { return "reverts" }
func (p *RevertPass) Description() string {
	return "Links revert commits to their originals and zeroes both weights"
}

// Run scans all commits in scope. Idempotent: commits already at weight zero
// are skipped without a write. A write failure on one commit is logged and
// the loop continues; the summary's mutated/considered counts let an
// operator spot partial failure.
func (p *RevertPass) Run(ctx context.Context, req port.PassRequest) (*port.Summary, error) {
	repoID, err := resolveScope(ctx, p.store, req.RepoFilter)
	if err != nil {
		return nil, err
	}

	// All-pairs-by-reference over an in-memory snapshot. Fine at tens of
	// thousands of commits per repository; an identifier index per
	// repository is the upgrade path beyond that.
	commits, err := p.store.ListCommits(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}

	byRepo := make(map[string][]*domain.Commit)
	for i := range commits {
		c := &commits[i]
		byRepo[c.RepositoryID] = append(byRepo[c.RepositoryID], c)
	}

	summary := newSummary(p.Name(), req)
	summary.Considered = len(commits)

	var tx port.Tx
	if !req.DryRun {
		tx, err = p.store.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin reverts pass: %w", err)
		}
		defer tx.Rollback() // no-op once committed
	}

	// done marks commits this run has settled, so a commit reached through
	// several references is counted once.
	done := make(map[string]bool)
	zero := func(c *domain.Commit) {
		if done[c.ID] {
			return
		}
		if c.Weight == domain.WeightZero {
			done[c.ID] = true
			summary.Skipped++
			return
		}
		if !req.DryRun {
			if err := tx.SetCommitWeight(ctx, c.ID, domain.WeightZero); err != nil {
				slog.Error("zero weight failed", "commit", c.Hash, "error", err)
				summary.Warnings++
				return
			}
		}
		done[c.ID] = true
		summary.Mutated++
	}

	for i := range commits {
		c := &commits[i]
		if !IsRevertSubject(c.Subject) {
			continue
		}

		// The revert commit itself is zeroed regardless of whether its
		// references resolve.
		zero(c)

		for _, ref := range CrossRefs(c.Subject) {
			linked := false
			for _, o := range byRepo[c.RepositoryID] {
				if o.ID == c.ID || !strings.Contains(o.Subject, ref) {
					continue
				}
				// Unreverts keep their weight even when a reference
				// lands on their subject.
				if unrevertWordRe.MatchString(o.Subject) {
					continue
				}
				linked = true
				zero(o)
			}
			if !linked {
				slog.Warn("revert reference matches no commit",
					"repository_id", c.RepositoryID, "commit", c.Hash, "ref", ref)
				summary.Warnings++
				summary.Notes = append(summary.Notes,
					fmt.Sprintf("commit %s: reference %s matches no commit", c.Hash, ref))
			}
		}
	}

	if !req.DryRun {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit reverts pass: %w", err)
		}
	}
	return summary, nil
}
