package core

import "github.com/fiyolabs/feedkit/pkg/utils"

// FeedContext 承载单次 feed 请求的用户/类型/信号信息，贯穿整个 Pipeline 透传。
type FeedContext struct {
	UserID      string
	ContentType ContentType

	// User 是本次请求解析出的用户信号快照
	User *UserContext

	// TrendingTags 是本次请求计算出的网络内热门标签
	TrendingTags []string

	// Metrics 是打分阶段填充的互动指标（rank 节点写入，供后续节点读取）
	Metrics map[string]Metrics

	// Labels 是请求级标签，可驱动 Pipeline 行为（如冷启动用户、实验分桶）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（device_type、locale 等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (fctx *FeedContext) PutLabel(key string, lbl utils.Label) {
	if fctx.Labels == nil {
		fctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := fctx.Labels[key]; ok {
		fctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	fctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (fctx *FeedContext) GetLabel(key string) (utils.Label, bool) {
	if fctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := fctx.Labels[key]
	return lbl, ok
}
