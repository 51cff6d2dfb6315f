package recall

import (
	"context"
	"sort"
	"time"

	"github.com/fiyolabs/feedkit/core"
)

// TrendingTags 统计用户社交网络内当前流行的 hashtag。
//
// 两步：先扫出窗口内网络成员发布的内容 id（两类内容都扫，按类型
// 显式分开查询，不依赖 id 编码约定），再取这些内容的 hashtag 集合
// 做出现次数统计。
//
// 纯读取，无副作用；networkIDs 为空立即返回空结果。
type TrendingTags struct {
	Store core.ContentStore

	// TimeframeDays 回看窗口（天），0 取 DefaultTimeframeDays
	TimeframeDays int

	// ScanLimit 每种内容类型最多扫描的条数，防止大网络退化成全表扫（0 取 500）
	ScanLimit int

	// TopK 返回的标签数量（0 取 10）
	TopK int
}

const (
	defaultTrendingScanLimit = 500
	defaultTrendingTopK      = 10
)

// Top 返回按出现次数降序的前 TopK 个标签；计数相同的标签
// 按聚合时首次出现顺序排列（稳定排序）。
func (t *TrendingTags) Top(ctx context.Context, networkIDs []string) ([]string, error) {
	if len(networkIDs) == 0 {
		return nil, nil
	}

	days := t.TimeframeDays
	if days <= 0 {
		days = DefaultTimeframeDays
	}
	since := time.Duration(days) * 24 * time.Hour

	scanLimit := t.ScanLimit
	if scanLimit <= 0 {
		scanLimit = defaultTrendingScanLimit
	}

	// tag → 出现次数；order 记录首次出现顺序，作为计数平局时的次序
	counts := make(map[string]int)
	order := make([]string, 0, 32)

	for _, ct := range core.ContentTypes() {
		rows, err := t.Store.ListByAuthors(ctx, ct, networkIDs, since, scanLimit)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			continue
		}

		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}

		metrics, err := t.Store.FetchMetrics(ctx, ct, ids)
		if err != nil {
			return nil, err
		}

		// 按 ids 顺序遍历，保证首次出现顺序确定（map 遍历无序）
		for _, id := range ids {
			m, ok := metrics[id]
			if !ok {
				continue
			}
			for _, tag := range m.Hashtags {
				if _, seen := counts[tag]; !seen {
					order = append(order, tag)
				}
				counts[tag]++
			}
		}
	}

	if len(order) == 0 {
		return nil, nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	topK := t.TopK
	if topK <= 0 {
		topK = defaultTrendingTopK
	}
	if len(order) > topK {
		order = order[:topK]
	}
	return order, nil
}
