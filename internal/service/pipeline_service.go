package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/worklens/worklens/internal/port"
)

// PipelineService runs engine passes and logs their summaries.
type PipelineService struct {
	pipeline *port.Pipeline
}

// NewPipelineService creates a new pipeline service.
func NewPipelineService(p *port.Pipeline) *PipelineService {
	return &PipelineService{pipeline: p}
}

// RunPass executes one named pass.
func (s *PipelineService) RunPass(ctx context.Context, name string, req port.PassRequest) (*port.Summary, error) {
	started := time.Now()
	summary, err := s.pipeline.Run(ctx, name, req)
	if err != nil {
		slog.Error("pass failed", "pass", name, "error", err)
		return nil, err
	}
	logSummary(summary, time.Since(started))
	return summary, nil
}

// RunAll executes every pass in pipeline order: categorize, reverts,
// sync-weights. Revert detection before synchronization is the one ordering
// the engine's invariants depend on.
func (s *PipelineService) RunAll(ctx context.Context, req port.PassRequest) ([]*port.Summary, error) {
	started := time.Now()
	summaries, err := s.pipeline.RunAll(ctx, req)
	for _, summary := range summaries {
		logSummary(summary, 0)
	}
	if err != nil {
		slog.Error("pipeline aborted", "error", err)
		return summaries, err
	}
	slog.Info("pipeline complete", "passes", len(summaries), "duration", time.Since(started))
	return summaries, nil
}

// AvailablePasses returns pass names in execution order.
func (s *PipelineService) AvailablePasses() []string {
	return s.pipeline.AvailablePasses()
}

// Describe returns the description of a named pass.
func (s *PipelineService) Describe(name string) (string, bool) {
	pass, ok := s.pipeline.Get(name)
	if !ok {
		return "", false
	}
	return pass.Description(), true
}

func logSummary(s *port.Summary, elapsed time.Duration) {
	args := []any{
		"run_id", s.RunID,
		"pass", s.Pass,
		"dry_run", s.DryRun,
		"considered", s.Considered,
		"mutated", s.Mutated,
		"skipped", s.Skipped,
		"warnings", s.Warnings,
	}
	if s.RepoFilter != "" {
		args = append(args, "repo", s.RepoFilter)
	}
	if elapsed > 0 {
		args = append(args, "duration", elapsed)
	}
	slog.Info("pass complete", args...)
}
