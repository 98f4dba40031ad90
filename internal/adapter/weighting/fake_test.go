package weighting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/worklens/worklens/internal/domain"
	"github.com/worklens/worklens/internal/port"
)

// fakeStore is an in-memory port.Store for pass tests. It counts writes so
// idempotence can be asserted directly.
type fakeStore struct {
	repos      []domain.Repository
	commits    []domain.Commit
	categories map[string]*domain.Category

	writes int

	failWeightFor map[string]bool // commit IDs whose weight writes fail
	failUsage     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories:    make(map[string]*domain.Category),
		failWeightFor: make(map[string]bool),
	}
}

func (f *fakeStore) addRepo(id, name string) {
	f.repos = append(f.repos, domain.Repository{ID: id, Name: name})
}

func (f *fakeStore) addCommit(repoID, hash, subject string, weight int) {
	f.commits = append(f.commits, domain.Commit{
		ID:           fmt.Sprintf("c%d", len(f.commits)+1),
		RepositoryID: repoID,
		Hash:         hash,
		Subject:      subject,
		Weight:       weight,
	})
}

func (f *fakeStore) addCategory(name string, weight int) {
	f.categories[name] = &domain.Category{Name: name, Weight: weight}
}

func (f *fakeStore) commitByHash(hash string) *domain.Commit {
	for i := range f.commits {
		if f.commits[i].Hash == hash {
			return &f.commits[i]
		}
	}
	return nil
}

// --- port.Store ---

func (f *fakeStore) FindRepository(_ context.Context, name string) (*domain.Repository, error) {
	for _, r := range f.repos {
		if r.Name == name {
			repo := r
			return &repo, nil
		}
	}
	return nil, port.ErrRepoNotFound
}

func (f *fakeStore) ListCommits(_ context.Context, repoID string) ([]domain.Commit, error) {
	var out []domain.Commit
	for _, c := range f.commits {
		if repoID == "" || c.RepositoryID == repoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListUncategorized(_ context.Context, repoID string) ([]domain.Commit, error) {
	var out []domain.Commit
	for _, c := range f.commits {
		if c.Category != "" {
			continue
		}
		if repoID == "" || c.RepositoryID == repoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) CategoryTally(_ context.Context, name string, targetWeight int, repoID string) (domain.CategoryTally, error) {
	var t domain.CategoryTally
	for _, c := range f.commits {
		if c.Category != name {
			continue
		}
		if repoID != "" && c.RepositoryID != repoID {
			continue
		}
		switch {
		case c.Weight == 0:
			t.Reverted++
		case c.Weight == targetWeight:
			t.InSync++
		default:
			t.OutOfSync++
		}
	}
	return t, nil
}

func (f *fakeStore) Begin(_ context.Context) (port.Tx, error) {
	return &fakeTx{store: f}, nil
}

// --- port.Tx ---

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) SetCommitCategory(_ context.Context, commitID, category string) error {
	for i := range t.store.commits {
		if t.store.commits[i].ID == commitID {
			t.store.commits[i].Category = category
			t.store.writes++
			return nil
		}
	}
	return fmt.Errorf("no commit %s", commitID)
}

func (t *fakeTx) SetCommitWeight(_ context.Context, commitID string, weight int) error {
	if t.store.failWeightFor[commitID] {
		return fmt.Errorf("write failed for %s", commitID)
	}
	for i := range t.store.commits {
		if t.store.commits[i].ID == commitID {
			t.store.commits[i].Weight = weight
			t.store.writes++
			return nil
		}
	}
	return fmt.Errorf("no commit %s", commitID)
}

func (t *fakeTx) BumpCategoryUsage(_ context.Context, name string) error {
	if t.store.failUsage {
		return fmt.Errorf("usage upsert failed")
	}
	if cat, ok := t.store.categories[name]; ok {
		cat.UsageCount++
	} else {
		t.store.categories[name] = &domain.Category{
			Name: name, Weight: domain.WeightMax, UsageCount: 1,
		}
	}
	t.store.writes++
	return nil
}

func (t *fakeTx) ApplyCategoryWeight(_ context.Context, name string, weight int, repoID string) (int64, error) {
	var n int64
	for i := range t.store.commits {
		c := &t.store.commits[i]
		if c.Category != name || c.Weight <= 0 || c.Weight == weight {
			continue
		}
		if repoID != "" && c.RepositoryID != repoID {
			continue
		}
		c.Weight = weight
		t.store.writes++
		n++
	}
	return n, nil
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

// subjectWithRefs is a helper for revert tests.
func subjectWithRefs(base string, refs ...string) string {
	parts := []string{base}
	for _, r := range refs {
		parts = append(parts, "("+r+")")
	}
	return strings.Join(parts, " ")
}
