package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/fiyolabs/feedkit/core"
)

// defaultInteractionLimit 是解析用户上下文时回看的互动事件条数。
const defaultInteractionLimit = 50

// ContextResolver 为一次 feed 生成收集用户信号：社交关系、兴趣、互动历史。
//
// 四个子查询（mates / follows / interests / recent interactions）并发执行，
// 全部完成后才组装上下文；任何一个失败则整体失败，不产出部分上下文。
type ContextResolver struct {
	Interactions core.InteractionStore
	Contents     core.ContentStore

	// InteractionLimit 互动历史回看条数（0 取 50）
	InteractionLimit int
}

// Resolve 构建 userID 的 UserContext。只读，无副作用。
func (r *ContextResolver) Resolve(ctx context.Context, userID string) (*core.UserContext, error) {
	limit := r.InteractionLimit
	if limit <= 0 {
		limit = defaultInteractionLimit
	}

	var (
		mates        []string
		follows      []string
		interests    []string
		interactions []core.Interaction
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		mates, err = r.Interactions.Mates(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		follows, err = r.Interactions.Follows(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		interests, err = r.Interactions.Interests(egCtx, userID)
		return err
	})
	eg.Go(func() error {
		var err error
		interactions, err = r.Interactions.RecentInteractions(egCtx, userID, limit)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	byType := groupByAction(interactions)

	likedCreators, err := r.resolveLikedCreators(ctx, interactions)
	if err != nil {
		return nil, err
	}

	return core.NewUserContext(userID, mates, follows, interests, byType, likedCreators), nil
}

// groupByAction 把互动事件按行为类型分组成内容 id 集合。
func groupByAction(interactions []core.Interaction) map[string]map[string]struct{} {
	byType := make(map[string]map[string]struct{})
	for _, it := range interactions {
		set, ok := byType[it.ActionType]
		if !ok {
			set = make(map[string]struct{})
			byType[it.ActionType] = set
		}
		set[it.ContentID] = struct{}{}
	}
	return byType
}

// resolveLikedCreators 找出用户点赞过的内容的作者。
// like 事件按内容类型分组（显式类型字段，不看 id 编码），每种类型出现过
// 才查询，作者跨类型取并集，保持首次出现顺序。
func (r *ContextResolver) resolveLikedCreators(ctx context.Context, interactions []core.Interaction) ([]string, error) {
	idsByType := make(map[core.ContentType][]string)
	typeOrder := make([]core.ContentType, 0, 2)
	for _, it := range interactions {
		if it.ActionType != core.ActionLike {
			continue
		}
		if _, ok := idsByType[it.ContentType]; !ok {
			typeOrder = append(typeOrder, it.ContentType)
		}
		idsByType[it.ContentType] = append(idsByType[it.ContentType], it.ContentID)
	}
	if len(typeOrder) == 0 {
		return nil, nil
	}

	var creators []string
	seen := make(map[string]struct{})
	for _, ct := range typeOrder {
		authors, err := r.Contents.AuthorsOf(ctx, ct, idsByType[ct])
		if err != nil {
			return nil, err
		}
		for _, a := range authors {
			if _, ok := seen[a]; ok {
				continue
			}
			seen[a] = struct{}{}
			creators = append(creators, a)
		}
	}
	return creators, nil
}
