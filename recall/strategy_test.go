package recall

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiyolabs/feedkit/core"
)

func userContext(mates, follows, interests, likedCreators []string) *core.UserContext {
	return core.NewUserContext("u1", mates, follows, interests, nil, likedCreators)
}

func strategyNames(strategies []Strategy) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name)
	}
	return names
}

func TestBuildStrategies_FullSignals(t *testing.T) {
	uc := userContext(
		[]string{"m1"},
		[]string{"f1"},
		[]string{"golang"},
		[]string{"c1"},
	)

	strategies := BuildStrategies(uc, []string{"trending_tag"})

	assert.Equal(t,
		[]string{"mates", "follows", "interests", "trending", "liked_creators", "popular", "recent"},
		strategyNames(strategies))
}

func TestBuildStrategies_ColdUserDegradesToGlobal(t *testing.T) {
	uc := userContext(nil, nil, nil, nil)

	strategies := BuildStrategies(uc, nil)

	assert.Equal(t, []string{"popular", "recent"}, strategyNames(strategies))
}

func TestBuildStrategies_WeightsAndLimits(t *testing.T) {
	uc := userContext([]string{"m1"}, []string{"f1"}, []string{"go"}, []string{"c1"})

	byName := make(map[string]Strategy)
	for _, s := range BuildStrategies(uc, []string{"tag"}) {
		byName[s.Name] = s
	}

	tests := []struct {
		name   string
		weight float64
		limit  int
	}{
		{"mates", 50, 15},
		{"follows", 30, 15},
		{"interests", 20, 15},
		{"trending", 15, 15},
		{"liked_creators", 25, 10},
		{"popular", 15, 15},
		{"recent", 10, 15},
	}
	for _, tt := range tests {
		s, ok := byName[tt.name]
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.weight, s.Weight, tt.name)
		assert.Equal(t, tt.limit, s.Limit, tt.name)
	}
}

func TestBuildStrategies_LikedCreatorsCappedAt50(t *testing.T) {
	creators := make([]string, 60)
	for i := range creators {
		creators[i] = fmt.Sprintf("creator_%02d", i)
	}
	uc := userContext(nil, nil, nil, creators)

	strategies := BuildStrategies(uc, nil)
	require.Len(t, strategies, 3) // liked_creators, popular, recent

	sel, ok := strategies[0].Selector.(ByAuthors)
	require.True(t, ok)
	require.Len(t, sel.AuthorIDs, 50)
	// 截断保留前 50 个，顺序不变
	assert.Equal(t, "creator_00", sel.AuthorIDs[0])
	assert.Equal(t, "creator_49", sel.AuthorIDs[49])
}

func TestBuildStrategies_SelectorShapes(t *testing.T) {
	uc := userContext([]string{"m1"}, nil, []string{"go"}, nil)

	strategies := BuildStrategies(uc, []string{"tag"})
	byName := make(map[string]Strategy)
	for _, s := range strategies {
		byName[s.Name] = s
	}

	assert.IsType(t, ByAuthors{}, byName["mates"].Selector)
	assert.IsType(t, ByTags{}, byName["interests"].Selector)
	assert.IsType(t, ByTags{}, byName["trending"].Selector)
	assert.Equal(t, BySort{Order: SortPopular}, byName["popular"].Selector)
	assert.Equal(t, BySort{Order: SortRecent}, byName["recent"].Selector)
}
