package dsl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pkg/utils"
)

func testCandidate() *core.Candidate {
	c := core.NewCandidate("c1", "a1", time.Now())
	c.Score = 85.0
	c.StrategyName = "mates"
	c.StrategyWeight = 50
	c.PutLabel("strategy", utils.Label{Value: "mates", Source: "recall"})
	return c
}

func TestEval_Evaluate(t *testing.T) {
	fctx := &core.FeedContext{UserID: "u1", ContentType: core.ContentTypePost}

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{"empty expression is true", "", true, false},
		{"label value shortcut", `label.strategy == "mates"`, true, false},
		{"label mismatch", `label.strategy == "recent"`, false, false},
		{"candidate score compare", `candidate.score > 50.0`, true, false},
		{"candidate strategy name", `candidate.strategy_name == "mates"`, true, false},
		{"logical and", `label.strategy == "mates" && candidate.score > 90.0`, false, false},
		{"fctx fields", `fctx.content_type == "posts"`, true, false},
		{"non-boolean result", `candidate.score`, false, true},
		{"syntax error", `candidate.score >`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEval(testCandidate(), fctx)
			got, err := e.Evaluate(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
