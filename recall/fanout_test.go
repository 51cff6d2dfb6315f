package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiyolabs/feedkit/core"
)

// stubSource 返回固定候选或固定错误。
type stubSource struct {
	name       string
	candidates []*core.Candidate
	err        error
	delay      time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, _ *core.FeedContext) ([]*core.Candidate, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.candidates, s.err
}

func candidate(id string, weight float64, strategy string) *core.Candidate {
	c := core.NewCandidate(id, "author_"+id, time.Now())
	c.StrategyWeight = weight
	c.StrategyName = strategy
	return c
}

func TestFanout_MergesInSourceOrder(t *testing.T) {
	n := &Fanout{Sources: []Source{
		// 第二个源有延迟，完成顺序与声明顺序相反
		&stubSource{name: "a", candidates: []*core.Candidate{candidate("1", 50, "mates")}, delay: 20 * time.Millisecond},
		&stubSource{name: "b", candidates: []*core.Candidate{candidate("2", 30, "follows")}},
	}}

	got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestFanout_DedupHigherWeightReplaces(t *testing.T) {
	tests := []struct {
		name         string
		first        *core.Candidate
		second       *core.Candidate
		wantStrategy string
	}{
		{
			name:         "later higher weight replaces earlier",
			first:        candidate("x", 10, "recent"),
			second:       candidate("x", 50, "mates"),
			wantStrategy: "mates",
		},
		{
			name:         "later lower weight keeps earlier",
			first:        candidate("x", 50, "mates"),
			second:       candidate("x", 10, "recent"),
			wantStrategy: "mates",
		},
		{
			name:         "equal weight keeps first seen",
			first:        candidate("x", 15, "trending"),
			second:       candidate("x", 15, "popular"),
			wantStrategy: "trending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Fanout{Sources: []Source{
				&stubSource{name: "s1", candidates: []*core.Candidate{tt.first}},
				&stubSource{name: "s2", candidates: []*core.Candidate{tt.second}},
			}}

			got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantStrategy, got[0].StrategyName)
		})
	}
}

func TestFanout_ReplacementKeepsFirstSeenPosition(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&stubSource{name: "s1", candidates: []*core.Candidate{
			candidate("a", 10, "recent"),
			candidate("b", 10, "recent"),
		}},
		&stubSource{name: "s2", candidates: []*core.Candidate{
			candidate("a", 50, "mates"),
		}},
	}}

	got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// a 保持首次出现位置，但承载的策略换成了更高权重的来源
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "mates", got[0].StrategyName)
	assert.Equal(t, "b", got[1].ID)
}

func TestFanout_FailedSourceContributesNothing(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&stubSource{name: "broken", err: errors.New("store down")},
		&stubSource{name: "ok", candidates: []*core.Candidate{candidate("1", 15, "popular")}},
	}}

	got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFanout_NoSources(t *testing.T) {
	n := &Fanout{}
	got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFanout_AllSourcesFail(t *testing.T) {
	n := &Fanout{Sources: []Source{
		&stubSource{name: "s1", err: errors.New("down")},
		&stubSource{name: "s2", err: errors.New("down")},
	}}

	got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
