package port

import "context"

// Pass defines a pluggable engine pass (Strategy Pattern). Each pass makes
// one scan over the commits in scope and reports a Summary.
type Pass interface {
	// Name returns the unique name of this pass (e.g. "categorize", "reverts").
	Name() string

	// Description returns a human-readable description of what this pass does.
	Description() string

	// Run executes the pass. In dry-run mode it performs every read and every
	// decision but issues no writes and opens no transaction.
	Run(ctx context.Context, req PassRequest) (*Summary, error)
}

// PassRequest carries the scope and mode of a single pass invocation.
type PassRequest struct {
	DryRun     bool   `json:"dry_run"`
	RepoFilter string `json:"repo,omitempty"`  // repository name; empty = all repositories
	Force      bool   `json:"force,omitempty"` // categorize only: redo already-labelled commits
}

// Summary is the uniform result every pass reports to its operator.
type Summary struct {
	RunID      string         `json:"run_id"`
	Pass       string         `json:"pass"`
	DryRun     bool           `json:"dry_run"`
	RepoFilter string         `json:"repo,omitempty"`
	Considered int            `json:"considered"`
	Mutated    int            `json:"mutated"`
	Skipped    int            `json:"skipped"`
	Rejected   int            `json:"rejected,omitempty"` // categorize: candidates the validator refused
	Warnings   int            `json:"warnings"`
	Categories []CategoryStat `json:"categories,omitempty"`
	Notes      []string       `json:"notes,omitempty"`
}

// CategoryStat is one row of a per-category breakdown.
type CategoryStat struct {
	Name            string `json:"name"`
	Weight          int    `json:"weight"`
	Commits         int    `json:"commits"`
	Updated         int    `json:"updated"`
	SkippedReverted int    `json:"skipped_reverted,omitempty"`
}

// Pipeline orchestrates the engine passes. Registration order is execution
// order: revert detection must run before weight synchronization, so zeroed
// commits stay zeroed.
type Pipeline struct {
	order  []string
	passes map[string]Pass
}

// NewPipeline creates a pipeline running the given passes in order.
func NewPipeline(passes ...Pass) *Pipeline {
	p := &Pipeline{passes: make(map[string]Pass, len(passes))}
	for _, pass := range passes {
		p.order = append(p.order, pass.Name())
		p.passes[pass.Name()] = pass
	}
	return p
}

// Run executes the named pass.
func (p *Pipeline) Run(ctx context.Context, name string, req PassRequest) (*Summary, error) {
	pass, ok := p.passes[name]
	if !ok {
		return nil, ErrPassNotFound
	}
	return pass.Run(ctx, req)
}

// RunAll executes every registered pass in order and returns their summaries.
func (p *Pipeline) RunAll(ctx context.Context, req PassRequest) ([]*Summary, error) {
	summaries := make([]*Summary, 0, len(p.order))
	for _, name := range p.order {
		s, err := p.passes[name].Run(ctx, req)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// AvailablePasses returns the registered pass names in execution order.
func (p *Pipeline) AvailablePasses() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Get returns the named pass, for introspection endpoints.
func (p *Pipeline) Get(name string) (Pass, bool) {
	pass, ok := p.passes[name]
	return pass, ok
}
