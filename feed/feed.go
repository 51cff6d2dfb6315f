// Package feed 把召回、打分、缓存编排成端到端的“取 feed 或重算 feed”操作。
//
// 读路径：缓存可用直接返回；miss/过期走全量生成（解析用户上下文 →
// 并发多策略召回 → 去重 → 打分 → 截断 → 写缓存）。全量结果为空的
// 冷用户退到 starter feed（纯时间序，不打分）。
//
// 服务出的列表条数 ≤ 5 时触发一次后台异步重算：不阻塞响应、
// 失败只记日志，绝不上抛给调用方。
//
// 同一 (userID, contentType) 的并发重算是接受的竞态：缓存写幂等覆盖，
// 不做 single-flight 抢占。
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fiyolabs/feedkit/core"
	"github.com/fiyolabs/feedkit/pipeline"
	"github.com/fiyolabs/feedkit/rank"
	"github.com/fiyolabs/feedkit/recall"
	"github.com/fiyolabs/feedkit/rerank"
)

const (
	// DefaultFeedSize 是最终 feed 的条数上限。
	DefaultFeedSize = 20

	// defaultRefillThreshold 服务列表条数 ≤ 该值时触发后台重算
	defaultRefillThreshold = 5
)

// Service 是 feed 引擎的编排入口。所有依赖显式注入，不持有全局状态。
type Service struct {
	contents     core.ContentStore
	interactions core.InteractionStore
	cache        *Cache
	resolver     *ContextResolver
	trending     *recall.TrendingTags
	metrics      core.MetricsProvider

	logger          *slog.Logger
	feedSize        int
	refillThreshold int
	now             func() time.Time

	refillWG sync.WaitGroup
}

// Option 配置 Service。
type Option func(*Service)

// WithLogger 设置结构化日志器（默认 slog.Default）。
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithCacheTTL 设置缓存过期时间。
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cache.TTL = ttl }
}

// WithFeedSize 设置最终 feed 条数上限。
func WithFeedSize(n int) Option {
	return func(s *Service) { s.feedSize = n }
}

// WithMetricsProvider 把互动指标读取切到独立后端（默认用 ContentStore 自身）。
func WithMetricsProvider(p core.MetricsProvider) Option {
	return func(s *Service) { s.metrics = p }
}

// WithClock 注入时钟，测试用。
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New 构建 feed Service。contents/interactions 是抽象存储能力，
// cacheStore 是缓存的 KV 后端（生产用 store.RedisStore）。
func New(contents core.ContentStore, interactions core.InteractionStore, cacheStore core.Store, opts ...Option) *Service {
	s := &Service{
		contents:        contents,
		interactions:    interactions,
		cache:           &Cache{Store: cacheStore},
		resolver:        &ContextResolver{Interactions: interactions, Contents: contents},
		trending:        &recall.TrendingTags{Store: contents},
		metrics:         contents,
		logger:          slog.Default(),
		feedSize:        DefaultFeedSize,
		refillThreshold: defaultRefillThreshold,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUserFeed 返回用户的个性化 feed id 列表。
//
// 内容类型校验在任何存储访问之前完成，非法类型返回 core.ErrInvalidContentType。
// 缓存可用走快路径；否则同步重算（冷用户退到 starter feed），写回缓存后返回。
func (s *Service) GetUserFeed(ctx context.Context, userID, contentType string) ([]string, error) {
	ct, err := core.ParseContentType(contentType)
	if err != nil {
		return nil, err
	}

	ids, _, usable, err := s.cache.Read(ctx, userID, ct, s.now())
	if err != nil {
		return nil, err
	}
	if usable {
		cacheHits.WithLabelValues(string(ct)).Inc()
		s.logger.Debug("serving cached feed", "user_id", userID, "content_type", ct, "size", len(ids))
		return ids, nil
	}
	cacheMisses.WithLabelValues(string(ct)).Inc()

	ids, err = s.generate(ctx, userID, ct)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		return ids, nil
	}

	// 无任何候选的冷用户：starter feed 兜底，条数不足时后台补算
	ids, err = s.starter(ctx, userID, ct)
	if err != nil {
		return nil, err
	}
	if len(ids) <= s.refillThreshold {
		s.spawnRefill(userID, ct)
	}
	return ids, nil
}

// Generate 同步执行一次全量 feed 生成并写缓存，返回 id 列表。
// 公开给需要主动预热的调用方（如离线批量预计算任务）。
func (s *Service) Generate(ctx context.Context, userID, contentType string) ([]string, error) {
	ct, err := core.ParseContentType(contentType)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, userID, ct)
}

// Starter 生成并缓存 starter feed：请求类型下最新的 N 条内容，不打分。
// 用于没有可用缓存、个性化信号不足的冷用户，保证冷启动延迟可控。
func (s *Service) Starter(ctx context.Context, userID, contentType string) ([]string, error) {
	ct, err := core.ParseContentType(contentType)
	if err != nil {
		return nil, err
	}
	return s.starter(ctx, userID, ct)
}

// HydrateFeed 返回 feed 对应的完整内容行。缓存里引用的内容可能已被删除；
// 这些悬挂 id 从结果中剔除并从缓存列表中惰性清理，清理失败只记日志。
func (s *Service) HydrateFeed(ctx context.Context, userID, contentType string) ([]core.Content, error) {
	ct, err := core.ParseContentType(contentType)
	if err != nil {
		return nil, err
	}

	ids, err := s.GetUserFeed(ctx, userID, contentType)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.contents.FetchByIDs(ctx, ct, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate feed: %w", err)
	}

	byID := make(map[string]core.Content, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	out := make([]core.Content, 0, len(ids))
	var missing []string
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, row)
	}

	if len(missing) > 0 {
		if err := s.cache.RemoveIDs(ctx, userID, ct, missing); err != nil {
			s.logger.Warn("pruning dangling feed ids failed", "user_id", userID, "content_type", ct, "error", err)
		}
	}
	return out, nil
}

func (s *Service) generate(ctx context.Context, userID string, ct core.ContentType) ([]string, error) {
	start := s.now()
	defer func() {
		generateDuration.WithLabelValues(string(ct)).Observe(time.Since(start).Seconds())
	}()

	uc, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user context: %w", err)
	}

	trendingTags, err := s.trending.Top(ctx, uc.NetworkIDs())
	if err != nil {
		return nil, fmt.Errorf("trending tags: %w", err)
	}

	strategies := recall.BuildStrategies(uc, trendingTags)
	sources := make([]recall.Source, 0, len(strategies))
	for _, st := range strategies {
		sources = append(sources, &recall.StrategySource{Store: s.contents, Strategy: st})
	}

	fctx := &core.FeedContext{
		UserID:       userID,
		ContentType:  ct,
		User:         uc,
		TrendingTags: trendingTags,
	}
	pipe := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&recall.Fanout{Sources: sources},
		&rank.RelevanceNode{Metrics: s.metrics, Now: s.now},
		&rerank.TopNNode{N: s.feedSize},
	}}

	candidates, err := pipe.Run(ctx, fctx, nil)
	if err != nil {
		return nil, fmt.Errorf("generate feed: %w", err)
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	if err := s.cache.Write(ctx, userID, ct, ids, s.now()); err != nil {
		return nil, err
	}
	s.logger.Debug("generated feed", "user_id", userID, "content_type", ct, "size", len(ids))
	return ids, nil
}

func (s *Service) starter(ctx context.Context, userID string, ct core.ContentType) ([]string, error) {
	// 不限窗口，纯时间序取最新 N 条
	rows, err := s.contents.ListRecent(ctx, ct, 0, s.feedSize)
	if err != nil {
		return nil, fmt.Errorf("starter feed: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	// 只写列表不写时间戳：下一次完整读取必然 miss，促使尽快全量重算
	if err := s.cache.WriteList(ctx, userID, ct, ids); err != nil {
		return nil, err
	}
	s.logger.Debug("generated starter feed", "user_id", userID, "content_type", ct, "size", len(ids))
	return ids, nil
}

// spawnRefill 发起一次后台重算：脱离请求生命周期，结果不被等待，
// 失败只进日志与指标，永不上抛。
func (s *Service) spawnRefill(userID string, ct core.ContentType) {
	refillID := uuid.NewString()
	s.refillWG.Add(1)
	go func() {
		defer s.refillWG.Done()
		if _, err := s.generate(context.Background(), userID, ct); err != nil {
			refillFailures.Inc()
			s.logger.Error("background feed refill failed",
				"refill_id", refillID, "user_id", userID, "content_type", ct, "error", err)
			return
		}
		s.logger.Debug("background feed refill completed",
			"refill_id", refillID, "user_id", userID, "content_type", ct)
	}()
}
