package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/fiyolabs/feedkit/core"
)

const (
	// DefaultCacheTTL 是 feed 缓存的默认过期时间。
	DefaultCacheTTL = 2 * time.Hour

	// defaultMinUsableLen 缓存列表条数需严格大于该值才可直接服务
	defaultMinUsableLen = 5
)

// Cache 管理按 (userID, contentType) 维度缓存的 feed id 列表。
//
// 每个 feed 两个 key：id 列表与计算时间戳，TTL 独立但同批写入。
// 缓存可用的判定：列表存在、条数 > MinUsableLen、距计算时间未超 TTL；
// 其余情况一律视为 miss，由上层重算。
type Cache struct {
	Store core.Store

	// TTL 过期时间（0 取 DefaultCacheTTL）
	TTL time.Duration

	// MinUsableLen 可直接服务的最小条数阈值（0 取 5）
	MinUsableLen int
}

func feedKey(userID string, ct core.ContentType) string {
	return "feed:" + userID + ":" + string(ct)
}

func timestampKey(userID string, ct core.ContentType) string {
	return feedKey(userID, ct) + ":timestamp"
}

func (c *Cache) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultCacheTTL
}

func (c *Cache) minUsableLen() int {
	if c.MinUsableLen > 0 {
		return c.MinUsableLen
	}
	return defaultMinUsableLen
}

// Read 读取缓存的 feed。返回值:
//   - ids: 缓存的 id 列表（可能存在但不可用，供上层观测）
//   - computedAt: 计算时间戳，缺失时为零值
//   - usable: 是否可直接服务（存在 ∧ 条数 > 阈值 ∧ 未过期）
//
// key 不存在不是错误；存储后端故障原样上抛。
func (c *Cache) Read(ctx context.Context, userID string, ct core.ContentType, now time.Time) (ids []string, computedAt time.Time, usable bool, err error) {
	raw, err := c.Store.Get(ctx, feedKey(userID, ct))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("feed cache read: %w", err)
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		// 脏数据按 miss 处理，重算会覆盖
		return nil, time.Time{}, false, nil
	}

	rawTS, err := c.Store.Get(ctx, timestampKey(userID, ct))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return ids, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("feed cache read timestamp: %w", err)
	}
	millis, err := strconv.ParseInt(string(rawTS), 10, 64)
	if err != nil {
		return ids, time.Time{}, false, nil
	}
	computedAt = time.UnixMilli(millis)

	usable = len(ids) > c.minUsableLen() && now.Sub(computedAt) < c.ttl()
	return ids, computedAt, usable, nil
}

// Write 写入重算结果：id 列表与计算时间戳一次批量写入，TTL 同步生效。
func (c *Cache) Write(ctx context.Context, userID string, ct core.ContentType, ids []string, computedAt time.Time) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("feed cache encode: %w", err)
	}
	kvs := map[string][]byte{
		feedKey(userID, ct):      raw,
		timestampKey(userID, ct): []byte(strconv.FormatInt(computedAt.UnixMilli(), 10)),
	}
	ttlSec := int(c.ttl() / time.Second)
	if err := c.Store.BatchSet(ctx, kvs, ttlSec); err != nil {
		return fmt.Errorf("feed cache write: %w", err)
	}
	return nil
}

// WriteList 只写 id 列表，不写时间戳，starter feed 专用。
// 缺失的时间戳让下一次完整读取必然判定为 miss，冷用户尽快升级到全量计算。
func (c *Cache) WriteList(ctx context.Context, userID string, ct core.ContentType, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("feed cache encode: %w", err)
	}
	ttlSec := int(c.ttl() / time.Second)
	if err := c.Store.Set(ctx, feedKey(userID, ct), raw, ttlSec); err != nil {
		return fmt.Errorf("feed cache write list: %w", err)
	}
	return nil
}

// RemoveIDs 从缓存列表中剔除悬挂 id（内容已被删除）。
// 惰性清理：只改列表，不动时间戳，也不使整个缓存条目失效。
func (c *Cache) RemoveIDs(ctx context.Context, userID string, ct core.ContentType, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	raw, err := c.Store.Get(ctx, feedKey(userID, ct))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil
		}
		return fmt.Errorf("feed cache prune: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}

	drop := make(map[string]struct{}, len(missing))
	for _, id := range missing {
		drop[id] = struct{}{}
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; ok {
			continue
		}
		kept = append(kept, id)
	}
	if len(kept) == len(ids) {
		return nil
	}

	encoded, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("feed cache encode: %w", err)
	}
	ttlSec := int(c.ttl() / time.Second)
	if err := c.Store.Set(ctx, feedKey(userID, ct), encoded, ttlSec); err != nil {
		return fmt.Errorf("feed cache prune: %w", err)
	}
	return nil
}
