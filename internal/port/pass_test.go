package port

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPass struct {
	name string
	log  *[]string
}

func (p stubPass) Name() string        { return p.name }
func (p stubPass) Description() string { return p.name + " pass" }
func (p stubPass) Run(_ context.Context, req PassRequest) (*Summary, error) {
	*p.log = append(*p.log, p.name)
	return &Summary{Pass: p.name, DryRun: req.DryRun}, nil
}

func TestPipelineRunsInRegistrationOrder(t *testing.T) {
	var log []string
	p := NewPipeline(
		stubPass{"categorize", &log},
		stubPass{"reverts", &log},
		stubPass{"sync-weights", &log},
	)

	summaries, err := p.RunAll(context.Background(), PassRequest{})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	// Revert detection must precede weight synchronization.
	assert.Equal(t, []string{"categorize", "reverts", "sync-weights"}, log)
	assert.Equal(t, log, p.AvailablePasses())
}

func TestPipelineRunByName(t *testing.T) {
	var log []string
	p := NewPipeline(stubPass{"reverts", &log})

	s, err := p.Run(context.Background(), "reverts", PassRequest{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "reverts", s.Pass)
	assert.True(t, s.DryRun)

	_, err = p.Run(context.Background(), "nope", PassRequest{})
	assert.ErrorIs(t, err, ErrPassNotFound)
}
