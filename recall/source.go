package recall

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
)

// Source 表示一个可复用的召回源。
// 你可以把它理解为“可并发 fan-out 的策略单元”：每个策略独立查询内容存储。
type Source interface {
	Name() string
	Recall(ctx context.Context, fctx *core.FeedContext) ([]*core.Candidate, error)
}
