// Package builders 注册内置 Node 的配置构建器。
//
// 召回相关的 Node（recall.fanout、rank.relevance）依赖内容库与指标源等
// 运行时对象，无法仅凭配置构建，需要在代码中组装后注入。
package builders

import (
	"fmt"

	"github.com/fiyolabs/feedkit/config"
	"github.com/fiyolabs/feedkit/filter"
	"github.com/fiyolabs/feedkit/pipeline"
	"github.com/fiyolabs/feedkit/pkg/conv"
	"github.com/fiyolabs/feedkit/rerank"
)

func init() {
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.author_diversity", BuildAuthorDiversityNode)
	config.Register("filter", BuildFilterNode)
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt(cfg, "n", 0)
	if n <= 0 {
		return nil, fmt.Errorf("rerank.topn: n must be positive")
	}
	return &rerank.TopNNode{N: n}, nil
}

func BuildAuthorDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.AuthorDiversity{
		MaxPerAuthor: conv.ConfigGetInt(cfg, "max_per_author", 0),
	}, nil
}

// BuildFilterNode 根据配置组装过滤节点，支持的 filter 类型：
//   - rule:   CEL 表达式过滤，config: {type: rule, expr: "candidate.score > 0"}
//   - hidden: 过滤用户隐藏过的内容，config: {type: hidden}
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filter: filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("filter: rule requires expr")
			}
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		case "hidden":
			filters = append(filters, &filter.HiddenFilter{})
		default:
			return nil, fmt.Errorf("filter: unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}
