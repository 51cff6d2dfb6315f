package rank

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pipeline"
)

// 打分公式的各项系数。策略权重是基础分，社交关系与互动指标做加法叠加，
// hide 互动给固定大额惩罚（配合零值截断把纯 hide 项挤出结果）。
const (
	mateBoost         = 50.0
	followBoost       = 30.0
	likedCreatorBoost = 20.0

	likeWeight    = 2.0
	commentWeight = 3.0
	shareWeight   = 4.0

	interestMatchBoost = 15.0
	likedContentBoost  = 10.0
	hiddenPenalty      = 1000.0

	// 时间衰减：score += 100 * exp(-hours/48)，半衰期约 33.3 小时
	recencyScale    = 100.0
	recencyHalfLife = 48.0
)

// RelevanceNode 是 feed 的排序节点：确定性公式打分，无模型推断。
// - 批量拉取互动指标（候选集为空不发起查询）
// - 指标缺失按零值处理
// - 最终分截断到 ≥0；分数 ≤0 的候选被剔除（hide 项由此出局）
// - 按分数降序稳定排序，平局保持到达顺序
type RelevanceNode struct {
	Metrics core.MetricsProvider

	// Now 用于测试注入时钟，为 nil 时取 time.Now
	Now func() time.Time
}

func (n *RelevanceNode) Name() string        { return "rank.relevance" }
func (n *RelevanceNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RelevanceNode) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	metrics, err := n.fetchMetrics(ctx, fctx, candidates)
	if err != nil {
		return nil, err
	}
	fctx.Metrics = metrics

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		c.Score = Score(c, fctx.User, metrics[c.ID], now)
		if c.Score <= 0 {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

func (n *RelevanceNode) fetchMetrics(
	ctx context.Context,
	fctx *core.FeedContext,
	candidates []*core.Candidate,
) (map[string]core.Metrics, error) {
	if n.Metrics == nil {
		return nil, nil
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return n.Metrics.FetchMetrics(ctx, fctx.ContentType, ids)
}

// Score 计算单个候选的相关性分数，结果截断到 ≥0。
// uc 为 nil 时只计策略权重、互动指标与时间衰减。
func Score(c *core.Candidate, uc *core.UserContext, m core.Metrics, now time.Time) float64 {
	score := c.StrategyWeight

	if uc != nil {
		if uc.IsMate(c.AuthorID) {
			score += mateBoost
		}
		if uc.IsFollowed(c.AuthorID) {
			score += followBoost
		}
		if uc.IsLikedCreator(c.AuthorID) {
			score += likedCreatorBoost
		}
	}

	score += float64(m.LikesCount) * likeWeight
	score += float64(m.CommentsCount) * commentWeight
	score += float64(m.SharesCount) * shareWeight

	if uc != nil {
		score += float64(interestMatches(m.Hashtags, uc.Interests)) * interestMatchBoost

		if uc.HasInteraction(core.ActionLike, c.ID) {
			score += likedContentBoost
		}
		if uc.HasInteraction(core.ActionHide, c.ID) {
			score -= hiddenPenalty
		}
	}

	hours := now.Sub(c.CreatedAt).Hours()
	score += recencyScale * math.Exp(-hours/recencyHalfLife)

	return math.Max(score, 0)
}

func interestMatches(hashtags, interests []string) int {
	if len(hashtags) == 0 || len(interests) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(interests))
	for _, tag := range interests {
		set[tag] = struct{}{}
	}
	matches := 0
	for _, tag := range hashtags {
		if _, ok := set[tag]; ok {
			matches++
		}
	}
	return matches
}
