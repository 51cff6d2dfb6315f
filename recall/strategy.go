package recall

import "github.com/fiyolabs/feedkit/core"

// Strategy 是一条命名的、带权重的召回规则，对候选池贡献有限数量的内容。
// Weight 既是打分的基础分，也是去重时的优先级。
//
// Selector 是密封的和类型，三选一：
//   - ByAuthors：按作者集合召回
//   - ByTags：按标签交集召回（两段式）
//   - BySort：按热度或时间排序召回
//
// 互斥性由类型系统保证，不存在“多个选择器同时生效”的配置。
type Strategy struct {
	Name     string
	Weight   float64
	Limit    int
	Selector Selector

	// TimeframeDays 回看窗口（天），0 取 DefaultTimeframeDays
	TimeframeDays int
}

// DefaultTimeframeDays 是策略回看窗口的默认值。
const DefaultTimeframeDays = 7

// Selector 是策略选择器的密封接口。
type Selector interface {
	isSelector()
}

// ByAuthors 按作者集合召回：窗口内指定作者的内容。
type ByAuthors struct {
	AuthorIDs []string
}

// ByTags 按标签交集召回：先按标签索引取 2×limit 个 id，再回表取整行。
type ByTags struct {
	Tags []string
}

// SortOrder 是 BySort 的排序方式。
type SortOrder string

const (
	SortPopular SortOrder = "popular" // (likes desc, comments desc)
	SortRecent  SortOrder = "recent"  // created_at desc
)

// BySort 按全局排序召回，不依赖用户信号。
type BySort struct {
	Order SortOrder
}

func (ByAuthors) isSelector() {}
func (ByTags) isSelector()    {}
func (BySort) isSelector()    {}

// 固定策略集的权重与截断，与线上调参结果一致。
const (
	mateWeight         = 50
	followWeight       = 30
	interestWeight     = 20
	likedCreatorWeight = 25
	trendingWeight     = 15
	popularWeight      = 15
	recentWeight       = 10

	defaultStrategyLimit = 15
	likedCreatorLimit    = 10
	likedCreatorCap      = 50 // 喜爱作者最多取前 50 个
)

// BuildStrategies 从 UserContext 构建固定策略集，顺序即去重时的处理顺序。
// 输入为空的策略不构建；popular 与 recent 恒在，保证冷用户也有候选
// （社交图、兴趣、互动史全空时恰好退化为 {popular, recent}）。
func BuildStrategies(uc *core.UserContext, trendingTags []string) []Strategy {
	var strategies []Strategy

	if mates := uc.MateIDs(); len(mates) > 0 {
		strategies = append(strategies, Strategy{
			Name:     "mates",
			Weight:   mateWeight,
			Limit:    defaultStrategyLimit,
			Selector: ByAuthors{AuthorIDs: mates},
		})
	}

	if follows := uc.FollowIDs(); len(follows) > 0 {
		strategies = append(strategies, Strategy{
			Name:     "follows",
			Weight:   followWeight,
			Limit:    defaultStrategyLimit,
			Selector: ByAuthors{AuthorIDs: follows},
		})
	}

	if len(uc.Interests) > 0 {
		strategies = append(strategies, Strategy{
			Name:     "interests",
			Weight:   interestWeight,
			Limit:    defaultStrategyLimit,
			Selector: ByTags{Tags: uc.Interests},
		})
	}

	if len(trendingTags) > 0 {
		strategies = append(strategies, Strategy{
			Name:     "trending",
			Weight:   trendingWeight,
			Limit:    defaultStrategyLimit,
			Selector: ByTags{Tags: trendingTags},
		})
	}

	if creators := uc.LikedCreatorIDs(); len(creators) > 0 {
		if len(creators) > likedCreatorCap {
			creators = creators[:likedCreatorCap]
		}
		strategies = append(strategies, Strategy{
			Name:     "liked_creators",
			Weight:   likedCreatorWeight,
			Limit:    likedCreatorLimit,
			Selector: ByAuthors{AuthorIDs: creators},
		})
	}

	strategies = append(strategies,
		Strategy{
			Name:     "popular",
			Weight:   popularWeight,
			Limit:    defaultStrategyLimit,
			Selector: BySort{Order: SortPopular},
		},
		Strategy{
			Name:     "recent",
			Weight:   recentWeight,
			Limit:    defaultStrategyLimit,
			Selector: BySort{Order: SortRecent},
		},
	)

	return strategies
}
