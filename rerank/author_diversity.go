package rerank

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pipeline"
)

// AuthorDiversity 是一个多样性重排节点：限制单个作者在 feed 中的条数，
// 避免高权重关系（如某个互关好友）刷屏。保留每个作者分数最高的前 K 条
// （输入已按分数降序，因此等价于保留先出现的 K 条）。
//
// 默认不在 feed 流水线中，按需通过配置启用。
type AuthorDiversity struct {
	// MaxPerAuthor 每个作者最多保留的条数；<= 0 取 3
	MaxPerAuthor int
}

func (n *AuthorDiversity) Name() string        { return "rerank.author_diversity" }
func (n *AuthorDiversity) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *AuthorDiversity) Process(
	_ context.Context,
	_ *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	maxPer := n.MaxPerAuthor
	if maxPer <= 0 {
		maxPer = 3
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if seen[c.AuthorID] >= maxPer {
			continue
		}
		seen[c.AuthorID]++
		out = append(out, c)
	}
	return out, nil
}
