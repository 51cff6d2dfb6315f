package core

// UserContext 是单次 feed 生成的用户信号快照。
//
// 一句话定义：UserContext = 召回策略的输入 + 打分的决策信号。
//
// 每次生成调用新建、构建后不再修改、归该次调用独占。
// 集合字段用于打分时 O(1) 查询；有序切片保持存储返回顺序，
// 保证策略构建（如 likedCreators 截断到 50）是确定性的。
type UserContext struct {
	UserID string

	// Interests 用户的兴趣标签（保持存储顺序）
	Interests []string
	// InteractionsByType 按行为类型分组的内容 id 集合（like / hide / ...）
	InteractionsByType map[string]map[string]struct{}

	mates         []string
	follows       []string
	likedCreators []string
	networkIDs    []string // mates ∪ follows，首次出现顺序

	mateSet         map[string]struct{}
	followSet       map[string]struct{}
	likedCreatorSet map[string]struct{}
}

// NewUserContext 由解析结果组装 UserContext。networkIDs 取 mates ∪ follows，
// mates 在前，保持首次出现顺序。
func NewUserContext(userID string, mates, follows, interests []string, byType map[string]map[string]struct{}, likedCreators []string) *UserContext {
	if byType == nil {
		byType = make(map[string]map[string]struct{})
	}
	uc := &UserContext{
		UserID:             userID,
		Interests:          interests,
		InteractionsByType: byType,
		mates:              mates,
		follows:            follows,
		likedCreators:      likedCreators,
		mateSet:            toSet(mates),
		followSet:          toSet(follows),
		likedCreatorSet:    toSet(likedCreators),
	}
	seen := make(map[string]struct{}, len(mates)+len(follows))
	for _, id := range mates {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uc.networkIDs = append(uc.networkIDs, id)
	}
	for _, id := range follows {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uc.networkIDs = append(uc.networkIDs, id)
	}
	return uc
}

// MateIDs 返回互关用户 id（存储顺序）。
func (uc *UserContext) MateIDs() []string { return uc.mates }

// FollowIDs 返回单向关注的用户 id（存储顺序）。
func (uc *UserContext) FollowIDs() []string { return uc.follows }

// LikedCreatorIDs 返回点赞内容的作者 id（解析时的首次出现顺序）。
func (uc *UserContext) LikedCreatorIDs() []string { return uc.likedCreators }

// NetworkIDs 返回 mates ∪ follows。
func (uc *UserContext) NetworkIDs() []string { return uc.networkIDs }

func (uc *UserContext) IsMate(userID string) bool {
	_, ok := uc.mateSet[userID]
	return ok
}

func (uc *UserContext) IsFollowed(userID string) bool {
	_, ok := uc.followSet[userID]
	return ok
}

func (uc *UserContext) IsLikedCreator(userID string) bool {
	_, ok := uc.likedCreatorSet[userID]
	return ok
}

// HasInteraction 检查用户是否对 contentID 有过 action 类型的互动。
func (uc *UserContext) HasInteraction(action, contentID string) bool {
	set, ok := uc.InteractionsByType[action]
	if !ok {
		return false
	}
	_, ok = set[contentID]
	return ok
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
