package filter

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pipeline"
	"github.com/fiyolabs/feedkit/pkg/utils"
)

// FilterNode 是过滤 Node，可以组合多个过滤器。
// 任何一个过滤器返回 true，该候选就被剔除；过滤器自身出错时跳过该过滤器，不中断流程。
type FilterNode struct {
	Filters []Filter
}

func (n *FilterNode) Name() string        { return "filter.node" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Filters) == 0 || len(candidates) == 0 {
		return candidates, nil
	}

	out := make([]*core.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c == nil {
			continue
		}

		filtered := false
		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, fctx, c)
			if err != nil {
				continue
			}
			if ok {
				filtered = true
				reason = f.Name()
				break
			}
		}

		if filtered {
			// 记录过滤原因，便于 explain / 观测
			c.PutLabel("filtered", utils.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, c)
	}

	return out, nil
}
