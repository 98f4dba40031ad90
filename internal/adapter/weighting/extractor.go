package weighting

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/worklens/worklens/internal/domain"
	"github.com/worklens/worklens/internal/port"
)

// pipeDelimiter separates the category prefix from the rest of the subject,
// e.g. "BILLING | Add invoice banner".
const pipeDelimiter = " | "

// capsStopList holds leading all-caps tokens that are commit verbs, not
// business-domain categories.
var capsStopList = map[string]struct{}{
	"MERGE":  {},
	"FIX":    {},
	"ADD":    {},
	"UPDATE": {},
	"REMOVE": {},
	"DELETE": {},
}

// Candidate derives a raw category candidate from a commit subject using
// three heuristics tried in order: pipe delimiter, bracket prefix, leading
// all-caps token. Returns "" when none applies. The result is uppercased
// but not yet validated.
func Candidate(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return ""
	}

	if i := strings.Index(subject, pipeDelimiter); i >= 0 {
		if c := strings.ToUpper(strings.TrimSpace(subject[:i])); c != "" {
			return c
		}
	}

	if strings.HasPrefix(subject, "[") {
		if j := strings.Index(subject, "]"); j > 0 {
			if c := strings.ToUpper(strings.TrimSpace(subject[1:j])); c != "" {
				return c
			}
		}
	}

	if tok := strings.Fields(subject)[0]; utf8.RuneCountInString(tok) >= 2 {
		// Uppercase-stable is enough. Letterless tokens like "123" still
		// qualify as candidates; rejecting them is the validator's job.
		if tok == strings.ToUpper(tok) {
			if _, stop := capsStopList[tok]; !stop {
				return tok
			}
		}
	}

	return ""
}

// ExtractorPass assigns a business-domain category to every commit in scope
// that does not have one yet. Accepted categories are written to the commit
// and bumped in the categories table; candidates the validator refuses are
// counted and the commit stays uncategorized.
type ExtractorPass struct {
	store     port.Store
	validator *Validator
}

// NewExtractorPass creates the categorize pass.
func NewExtractorPass(store port.Store, validator *Validator) *ExtractorPass {
	return &ExtractorPass{store: store, validator: validator}
}

func (p *ExtractorPass) Name() string { return "categorize" }
func (p *ExtractorPass) Description() string {
	return "Derives business-domain categories from commit subjects"
}

// Run categorizes commits. Re-running skips already-categorized commits
// unless req.Force is set.
func (p *ExtractorPass) Run(ctx context.Context, req port.PassRequest) (*port.Summary, error) {
	repoID, err := resolveScope(ctx, p.store, req.RepoFilter)
	if err != nil {
		return nil, err
	}

	var commits []domain.Commit
	if req.Force {
		commits, err = p.store.ListCommits(ctx, repoID)
	} else {
		commits, err = p.store.ListUncategorized(ctx, repoID)
	}
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}

	summary := newSummary(p.Name(), req)

	var tx port.Tx
	if !req.DryRun {
		tx, err = p.store.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin categorize pass: %w", err)
		}
		defer tx.Rollback() // no-op once committed
	}

	assigned := make(map[string]int)
	for _, c := range commits {
		summary.Considered++

		candidate := Candidate(c.Subject)
		if candidate == "" {
			summary.Skipped++
			continue
		}
		if reason := p.validator.Reason(candidate); reason != ReasonValid {
			slog.Debug("category candidate rejected",
				"commit", c.Hash, "candidate", candidate, "reason", reason)
			summary.Rejected++
			summary.Skipped++
			continue
		}

		if !req.DryRun {
			if err := tx.SetCommitCategory(ctx, c.ID, candidate); err != nil {
				return nil, fmt.Errorf("set category on commit %s: %w", c.Hash, err)
			}
			// Category bookkeeping is best-effort: a failed upsert never
			// fails the commit's own categorization.
			if err := tx.BumpCategoryUsage(ctx, candidate); err != nil {
				slog.Debug("category usage upsert failed", "category", candidate, "error", err)
			}
		}
		assigned[candidate]++
		summary.Mutated++
	}

	for name, n := range assigned {
		summary.Categories = append(summary.Categories, port.CategoryStat{
			Name: name, Commits: n, Updated: n,
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
			return nil, fmt.Errorf("commit categorize pass: %w", err)
		}
	}
	return summary, nil
}
