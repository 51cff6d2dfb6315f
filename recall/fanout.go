package recall

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pipeline"
)

// Fanout 是一个 Recall Node：并发执行全部召回源，并按权重合并去重。
//
// 容错：单个召回源失败只损失该源的候选，不中断整体召回。
//
// 合并语义（去重对打分结果有影响，需精确保持）：
//   - 各源结果按 Sources 顺序拼接后逐个处理，与并发完成顺序无关
//   - 同 id 冲突时，后处理的候选仅在 StrategyWeight 严格更高时替换已存项
//   - 替换不改变该 id 在结果中的位置（保持首次出现位置）
type Fanout struct {
	Sources []Source

	// Timeout 每个召回源的超时时间（0 不限制）
	Timeout time.Duration

	// MaxConcurrent 最大并发数（0 表示无限制）
	MaxConcurrent int
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	fctx *core.FeedContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 每个源的结果落在自己的槽位，合并时按 Sources 顺序遍历
	results := make([][]*core.Candidate, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			candidates, err := src.Recall(recallCtx, fctx)
			if err != nil {
				// 失败的源视为召回 0 条，不中断其他源
				return nil
			}
			results[i] = candidates
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return mergeByWeight(results), nil
}

// mergeByWeight 按 id 去重：同 id 后见者仅在权重严格更高时替换，
// 平局保留先见者；输出顺序为各 id 首次出现的顺序。
func mergeByWeight(results [][]*core.Candidate) []*core.Candidate {
	index := make(map[string]int, 64)
	out := make([]*core.Candidate, 0, 64)

	for _, batch := range results {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if pos, ok := index[c.ID]; ok {
				if c.StrategyWeight > out[pos].StrategyWeight {
					out[pos] = c
				}
				continue
			}
			index[c.ID] = len(out)
			out = append(out, c)
		}
	}
	return out
}
