package filter

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pkg/dsl"
)

// RuleFilter 是配置驱动的规则过滤器：表达式求值为 true 的候选被剔除。
// 表达式使用 CEL 语法（见 pkg/dsl），例如：
//   - `label.strategy == "recent" && candidate.score < 5.0`
//   - `candidate.author_id == "banned_author"`
type RuleFilter struct {
	// Expr 为空时不过滤任何候选
	Expr string
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	fctx *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || f.Expr == "" {
		return false, nil
	}
	return dsl.NewEval(c, fctx).Evaluate(f.Expr)
}
