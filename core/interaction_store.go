package core

import (
	"context"
	"time"
)

// 互动行为类型。hide 在打分中是强负向信号，like 是正向信号并参与喜爱作者推导。
const (
	ActionLike = "like"
	ActionHide = "hide"
)

// Interaction 是一条用户互动事件，按时间倒序由 RecentInteractions 返回。
type Interaction struct {
	ContentID   string
	ContentType ContentType
	ActionType  string
	CreatedAt   time.Time
}

// InteractionStore 是社交关系与互动历史的领域接口。
//
// 四个读取方法彼此独立，上下文解析器并发执行（见 feed.ContextResolver）。
// mate 关系是双向互关（mutual），follow 是单向关注。
//
// 实现：
//   - ext/store/postgres.InteractionStore 实现此接口
type InteractionStore interface {
	// Mates 返回与 userID 互关的用户 id（两个方向的边取并集）
	Mates(ctx context.Context, userID string) ([]string, error)

	// Follows 返回 userID 单向关注的用户 id
	Follows(ctx context.Context, userID string) ([]string, error)

	// Interests 返回 userID 存储的兴趣标签（有序）
	Interests(ctx context.Context, userID string) ([]string, error)

	// RecentInteractions 返回 userID 最近的互动事件，按时间倒序，截断到 limit
	RecentInteractions(ctx context.Context, userID string, limit int) ([]Interaction, error)
}
