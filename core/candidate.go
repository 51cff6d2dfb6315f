package core

import (
	"time"

	"github.com/fiyolabs/feedkit/pkg/utils"
)

// Candidate 是 feed 链路中的统一承载结构：内容标识、作者、产出该候选的策略、分数、标签。
// StrategyWeight/StrategyName 记录召回来源，用于去重优先级与打分；Labels 用于解释与观测。
type Candidate struct {
	ID        string
	AuthorID  string
	CreatedAt time.Time

	// StrategyWeight 是召回该候选的策略基础权重，去重时严格更高者胜出。
	StrategyWeight float64
	// StrategyName 是召回该候选的策略名（mates / follows / interests / trending / ...）。
	StrategyName string

	Score  float64
	Labels map[string]utils.Label
}

func NewCandidate(id, authorID string, createdAt time.Time) *Candidate {
	return &Candidate{
		ID:        id,
		AuthorID:  authorID,
		CreatedAt: createdAt,
		Labels:    make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}
