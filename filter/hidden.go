package filter

import (
	"context"

	"github.com/fiyolabs/feedkit/core"
)

// HiddenFilter 硬排除用户 hide 过的内容。
//
// 默认流水线不启用它：打分公式里的大额惩罚加零值截断已把纯 hide 项
// 挤出结果，但其他信号足够强时被 hide 的内容仍可能浮出。
// 需要“hide 即绝对不出现”语义的部署方可把该过滤器加进流水线。
type HiddenFilter struct{}

func (f *HiddenFilter) Name() string { return "filter.hidden" }

func (f *HiddenFilter) ShouldFilter(
	_ context.Context,
	fctx *core.FeedContext,
	c *core.Candidate,
) (bool, error) {
	if c == nil || fctx == nil || fctx.User == nil {
		return false, nil
	}
	return fctx.User.HasInteraction(core.ActionHide, c.ID), nil
}
