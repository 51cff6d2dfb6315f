package filter

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
)

// Filter 判定单个候选是否应被剔除。
type Filter interface {
	Name() string
	ShouldFilter(ctx context.Context, fctx *core.FeedContext, c *core.Candidate) (bool, error)
}
