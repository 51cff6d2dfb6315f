package rank

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiyolabs/feedkit/core"
)

type stubMetrics struct {
	metrics map[string]core.Metrics
	err     error
	calls   int
}

func (s *stubMetrics) FetchMetrics(_ context.Context, _ core.ContentType, ids []string) (map[string]core.Metrics, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.metrics, nil
}

func newCandidate(id, authorID string, weight float64, createdAt time.Time) *core.Candidate {
	c := core.NewCandidate(id, authorID, createdAt)
	c.StrategyWeight = weight
	return c
}

func newUserContext(mates, follows, interests, likedCreators []string, byType map[string]map[string]struct{}) *core.UserContext {
	return core.NewUserContext("u1", mates, follows, interests, byType, likedCreators)
}

func TestScore_Formula(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		c    *core.Candidate
		uc   *core.UserContext
		m    core.Metrics
		want float64
	}{
		{
			name: "strategy weight plus fresh recency only",
			c:    newCandidate("c1", "a1", 50, now),
			uc:   newUserContext(nil, nil, nil, nil, nil),
			want: 50 + 100, // exp(0) = 1
		},
		{
			name: "mate author boost",
			c:    newCandidate("c1", "a1", 50, now),
			uc:   newUserContext([]string{"a1"}, nil, nil, nil, nil),
			want: 50 + 50 + 100,
		},
		{
			name: "followed author boost",
			c:    newCandidate("c1", "a1", 30, now),
			uc:   newUserContext(nil, []string{"a1"}, nil, nil, nil),
			want: 30 + 30 + 100,
		},
		{
			name: "liked creator boost",
			c:    newCandidate("c1", "a1", 25, now),
			uc:   newUserContext(nil, nil, nil, []string{"a1"}, nil),
			want: 25 + 20 + 100,
		},
		{
			name: "engagement weights",
			c:    newCandidate("c1", "a1", 10, now),
			uc:   newUserContext(nil, nil, nil, nil, nil),
			m:    core.Metrics{LikesCount: 5, CommentsCount: 3, SharesCount: 2},
			want: 10 + 5*2 + 3*3 + 2*4 + 100,
		},
		{
			name: "interest hashtag overlap",
			c:    newCandidate("c1", "a1", 20, now),
			uc:   newUserContext(nil, nil, []string{"go", "redis"}, nil, nil),
			m:    core.Metrics{Hashtags: []string{"go", "redis", "other"}},
			want: 20 + 2*15 + 100,
		},
		{
			name: "previously liked content",
			c:    newCandidate("c1", "a1", 10, now),
			uc: newUserContext(nil, nil, nil, nil, map[string]map[string]struct{}{
				core.ActionLike: {"c1": {}},
			}),
			want: 10 + 10 + 100,
		},
		{
			name: "hidden content clamps to zero",
			c:    newCandidate("c1", "a1", 50, now),
			uc: newUserContext(nil, nil, nil, nil, map[string]map[string]struct{}{
				core.ActionHide: {"c1": {}},
			}),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.c, tt.uc, tt.m, now)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScore_RecencyDecay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := newUserContext(nil, nil, nil, nil, nil)

	fresh := Score(newCandidate("c1", "a1", 10, now), uc, core.Metrics{}, now)
	dayOld := Score(newCandidate("c2", "a1", 10, now.Add(-24*time.Hour)), uc, core.Metrics{}, now)
	weekOld := Score(newCandidate("c3", "a1", 10, now.Add(-7*24*time.Hour)), uc, core.Metrics{}, now)

	assert.Greater(t, fresh, dayOld)
	assert.Greater(t, dayOld, weekOld)

	// 48 小时龄期的衰减值是 100/e
	twoDays := Score(newCandidate("c4", "a1", 0, now.Add(-48*time.Hour)), uc, core.Metrics{}, now)
	assert.InDelta(t, 100*math.Exp(-1), twoDays, 1e-9)
}

func TestRelevanceNode_DropsNonPositiveAndSortsDesc(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-1000 * time.Hour) // 衰减项趋近 0

	uc := newUserContext([]string{"mate"}, nil, nil, nil, map[string]map[string]struct{}{
		core.ActionHide: {"hidden1": {}},
	})
	fctx := &core.FeedContext{UserID: "u1", ContentType: core.ContentTypePost, User: uc}

	n := &RelevanceNode{
		Metrics: &stubMetrics{metrics: map[string]core.Metrics{}},
		Now:     func() time.Time { return now },
	}

	candidates := []*core.Candidate{
		newCandidate("low", "other", 10, old),
		newCandidate("hidden1", "other", 50, old),
		newCandidate("high", "mate", 30, old),
	}

	got, err := n.Process(context.Background(), fctx, candidates)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].ID) // 30 + 50 mate boost
	assert.Equal(t, "low", got[1].ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestRelevanceNode_StableSortKeepsArrivalOrderOnTies(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := newUserContext(nil, nil, nil, nil, nil)
	fctx := &core.FeedContext{User: uc, ContentType: core.ContentTypePost}

	n := &RelevanceNode{
		Metrics: &stubMetrics{metrics: map[string]core.Metrics{}},
		Now:     func() time.Time { return now },
	}

	// 同权重同龄期，分数完全相同
	candidates := []*core.Candidate{
		newCandidate("first", "a1", 15, now),
		newCandidate("second", "a2", 15, now),
		newCandidate("third", "a3", 15, now),
	}

	got, err := n.Process(context.Background(), fctx, candidates)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestRelevanceNode_EmptyInputSkipsMetricsFetch(t *testing.T) {
	metrics := &stubMetrics{}
	n := &RelevanceNode{Metrics: metrics}

	got, err := n.Process(context.Background(), &core.FeedContext{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, metrics.calls)
}

func TestRelevanceNode_MetricsErrorPropagates(t *testing.T) {
	boom := errors.New("metrics down")
	n := &RelevanceNode{Metrics: &stubMetrics{err: boom}}
	fctx := &core.FeedContext{User: newUserContext(nil, nil, nil, nil, nil)}

	_, err := n.Process(context.Background(), fctx, []*core.Candidate{
		newCandidate("c1", "a1", 10, time.Now()),
	})
	assert.ErrorIs(t, err, boom)
}

func TestRelevanceNode_MissingMetricsScoreAsZero(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fctx := &core.FeedContext{User: newUserContext(nil, nil, nil, nil, nil), ContentType: core.ContentTypePost}

	n := &RelevanceNode{
		Metrics: &stubMetrics{metrics: map[string]core.Metrics{}}, // 查无指标
		Now:     func() time.Time { return now },
	}

	got, err := n.Process(context.Background(), fctx, []*core.Candidate{
		newCandidate("c1", "a1", 10, now),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 10+100, got[0].Score, 1e-9)
}
