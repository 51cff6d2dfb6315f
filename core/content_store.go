package core

import (
	"context"
	"time"
)

// Content 是内容存储返回的行，召回/打分只依赖这三个字段，
// 类型特有字段（caption、track 等）由实现方按需附加。
type Content struct {
	ID        string
	AuthorID  string
	CreatedAt time.Time
}

// Metrics 是单条内容的互动指标，打分时按 ContentID 查找。
// 缺失的指标视为零值。
type Metrics struct {
	LikesCount    int
	CommentsCount int
	SharesCount   int
	Hashtags      []string
}

// ContentStore 是内容存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（ext/store/postgres 等）实现
//   - 标签/热度查询返回裸 id 列表（两段式召回的第一段），再经 FetchByIDs 取整行
//   - since 为回看窗口（如 7 天）；since <= 0 表示不限时间
//
// 实现：
//   - ext/store/postgres.ContentStore 实现此接口
type ContentStore interface {
	// ListByAuthors 返回窗口内指定作者的内容，截断到 limit
	ListByAuthors(ctx context.Context, ct ContentType, authorIDs []string, since time.Duration, limit int) ([]Content, error)

	// ListIDsByTags 返回窗口内 hashtag 集合与 tags 有交集的内容 id（按标签索引查询）
	ListIDsByTags(ctx context.Context, ct ContentType, tags []string, since time.Duration, limit int) ([]string, error)

	// ListIDsByEngagement 返回窗口内按 (likes desc, comments desc) 排序的内容 id
	ListIDsByEngagement(ctx context.Context, ct ContentType, since time.Duration, limit int) ([]string, error)

	// ListRecent 返回窗口内按 created_at desc 排序的内容，截断到 limit
	ListRecent(ctx context.Context, ct ContentType, since time.Duration, limit int) ([]Content, error)

	// FetchByIDs 按 id 取整行；不存在的 id 静默缺失（dangling id 由上层惰性清理）
	FetchByIDs(ctx context.Context, ct ContentType, ids []string) ([]Content, error)

	// FetchMetrics 批量取互动指标；调用方保证 ids 非空（空集在上层短路）
	FetchMetrics(ctx context.Context, ct ContentType, ids []string) (map[string]Metrics, error)

	// AuthorsOf 返回 ids 对应内容的去重作者列表
	AuthorsOf(ctx context.Context, ct ContentType, ids []string) ([]string, error)
}

// MetricsProvider 是互动指标的最小能力接口，ContentStore 天然满足。
// 允许把指标读取切到独立后端（如 Feast 在线特征库，见 ext/feast）。
type MetricsProvider interface {
	FetchMetrics(ctx context.Context, ct ContentType, ids []string) (map[string]Metrics, error)
}
