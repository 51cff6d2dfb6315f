// Package postgres 提供 ContentStore / InteractionStore 的 PostgreSQL 实现。
//
// 内容按类型分表（posts / clips），表名来自 core.ContentType 的封闭枚举，
// 不拼接任何外部输入。时间窗口在 Go 侧换算成 cutoff 时间戳传参。
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiyolabs/feedkit/core"
)

// ContentStore 是 core.ContentStore 的 pgx 实现。
type ContentStore struct {
	pool *pgxpool.Pool
}

func NewContentStore(pool *pgxpool.Pool) *ContentStore {
	return &ContentStore{pool: pool}
}

// cutoff 把回看窗口换算成时间戳；since <= 0 表示不限时间（Unix 零点起）。
func cutoff(since time.Duration) time.Time {
	if since <= 0 {
		return time.Unix(0, 0)
	}
	return time.Now().Add(-since)
}

func (s *ContentStore) ListByAuthors(ctx context.Context, ct core.ContentType, authorIDs []string, since time.Duration, limit int) ([]core.Content, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at
		FROM %s
		WHERE user_id = ANY($1) AND created_at > $2
		LIMIT $3`, ct)
	return s.queryContents(ctx, query, authorIDs, cutoff(since), limit)
}

func (s *ContentStore) ListIDsByTags(ctx context.Context, ct core.ContentType, tags []string, since time.Duration, limit int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE hashtags && $1 AND created_at > $2
		LIMIT $3`, ct)
	return s.queryIDs(ctx, query, tags, cutoff(since), limit)
}

func (s *ContentStore) ListIDsByEngagement(ctx context.Context, ct core.ContentType, since time.Duration, limit int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE created_at > $1
		ORDER BY likes_count DESC, comments_count DESC
		LIMIT $2`, ct)
	return s.queryIDs(ctx, query, cutoff(since), limit)
}

func (s *ContentStore) ListRecent(ctx context.Context, ct core.ContentType, since time.Duration, limit int) ([]core.Content, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at
		FROM %s
		WHERE created_at > $1
		ORDER BY created_at DESC, likes_count DESC, comments_count DESC
		LIMIT $2`, ct)
	return s.queryContents(ctx, query, cutoff(since), limit)
}

func (s *ContentStore) FetchByIDs(ctx context.Context, ct core.ContentType, ids []string) ([]core.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT id, user_id, created_at
		FROM %s
		WHERE id = ANY($1)`, ct)
	return s.queryContents(ctx, query, ids)
}

func (s *ContentStore) FetchMetrics(ctx context.Context, ct core.ContentType, ids []string) (map[string]core.Metrics, error) {
	if len(ids) == 0 {
		return map[string]core.Metrics{}, nil
	}
	query := fmt.Sprintf(`
		SELECT id, likes_count, comments_count, shares_count, hashtags
		FROM %s
		WHERE id = ANY($1)`, ct)

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch metrics: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.Metrics, len(ids))
	for rows.Next() {
		var id string
		var m core.Metrics
		if err := rows.Scan(&id, &m.LikesCount, &m.CommentsCount, &m.SharesCount, &m.Hashtags); err != nil {
			return nil, fmt.Errorf("postgres: scan metrics: %w", err)
		}
		out[id] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: fetch metrics: %w", err)
	}
	return out, nil
}

func (s *ContentStore) AuthorsOf(ctx context.Context, ct core.ContentType, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT DISTINCT user_id
		FROM %s
		WHERE id = ANY($1)`, ct)

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres: authors of: %w", err)
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan author: %w", err)
		}
		authors = append(authors, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: authors of: %w", err)
	}
	return authors, nil
}

func (s *ContentStore) queryContents(ctx context.Context, query string, args ...any) ([]core.Content, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query contents: %w", err)
	}
	defer rows.Close()

	var out []core.Content
	for rows.Next() {
		var c core.Content
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan content: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query contents: %w", err)
	}
	return out, nil
}

func (s *ContentStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query ids: %w", err)
	}
	return out, nil
}

var _ core.ContentStore = (*ContentStore)(nil)
