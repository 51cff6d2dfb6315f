package recall

import (
	"context"
	"time"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pkg/utils"
)

// StrategySource 把一条 Strategy 适配成可并发执行的召回源：
// 按选择器查询内容存储，并给每个结果打上策略权重与策略名。
//
// 标签/热度召回走两段式：存储按标签（或热度）索引只返回 id，
// 第一段取 2×limit 个 id，第二段 FetchByIDs 回表取整行；
// 第一段为空直接短路返回空结果。
type StrategySource struct {
	Store    core.ContentStore
	Strategy Strategy
}

func (s *StrategySource) Name() string { return "recall." + s.Strategy.Name }

func (s *StrategySource) Recall(
	ctx context.Context,
	fctx *core.FeedContext,
) ([]*core.Candidate, error) {
	limit := s.Strategy.Limit
	if limit <= 0 {
		limit = defaultStrategyLimit
	}

	days := s.Strategy.TimeframeDays
	if days <= 0 {
		days = DefaultTimeframeDays
	}
	since := time.Duration(days) * 24 * time.Hour

	rows, err := s.fetch(ctx, fctx.ContentType, since, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(rows))
	for _, row := range rows {
		c := core.NewCandidate(row.ID, row.AuthorID, row.CreatedAt)
		c.StrategyWeight = s.Strategy.Weight
		c.StrategyName = s.Strategy.Name
		c.PutLabel("strategy", utils.Label{Value: s.Strategy.Name, Source: "recall"})
		out = append(out, c)
	}
	return out, nil
}

func (s *StrategySource) fetch(
	ctx context.Context,
	ct core.ContentType,
	since time.Duration,
	limit int,
) ([]core.Content, error) {
	switch sel := s.Strategy.Selector.(type) {
	case ByAuthors:
		if len(sel.AuthorIDs) == 0 {
			return nil, nil
		}
		return s.Store.ListByAuthors(ctx, ct, sel.AuthorIDs, since, limit)

	case ByTags:
		if len(sel.Tags) == 0 {
			return nil, nil
		}
		ids, err := s.Store.ListIDsByTags(ctx, ct, sel.Tags, since, limit*2)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
		return s.fetchRows(ctx, ct, ids, limit)

	case BySort:
		if sel.Order == SortPopular {
			ids, err := s.Store.ListIDsByEngagement(ctx, ct, since, limit*2)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, nil
			}
			return s.fetchRows(ctx, ct, ids, limit)
		}
		return s.Store.ListRecent(ctx, ct, since, limit)

	default:
		// 未设置选择器时退化为按时间召回
		return s.Store.ListRecent(ctx, ct, since, limit)
	}
}

// fetchRows 是两段式召回的第二段：回表取整行并截断到 limit。
func (s *StrategySource) fetchRows(
	ctx context.Context,
	ct core.ContentType,
	ids []string,
	limit int,
) ([]core.Content, error) {
	rows, err := s.Store.FetchByIDs(ctx, ct, ids)
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
