package pipeline

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
)

// Pipeline 是 Feedkit 的核心抽象：把 feed 生成逻辑拆成可组合的 Node 链
// （Recall → Filter → Rank → ReRank）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, fctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
