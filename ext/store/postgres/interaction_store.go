package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fiyolabs/feedkit/core"
)

// InteractionStore 是 core.InteractionStore 的 pgx 实现。
//
// 好友关系是无向的，存储时只写一行（mater, matee），查询时双向 UNION。
type InteractionStore struct {
	pool *pgxpool.Pool
}

func NewInteractionStore(pool *pgxpool.Pool) *InteractionStore {
	return &InteractionStore{pool: pool}
}

func (s *InteractionStore) Mates(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT mater_id AS mate_id FROM mates WHERE matee_id = $1
		UNION
		SELECT matee_id AS mate_id FROM mates WHERE mater_id = $1`
	return s.queryIDs(ctx, query, userID)
}

func (s *InteractionStore) Follows(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT followee_id FROM followers WHERE follower_id = $1`
	return s.queryIDs(ctx, query, userID)
}

func (s *InteractionStore) Interests(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT interest_tags FROM users WHERE id = $1`

	var tags []string
	err := s.pool.QueryRow(ctx, query, userID).Scan(&tags)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: interests: %w", err)
	}
	return tags, nil
}

func (s *InteractionStore) RecentInteractions(ctx context.Context, userID string, limit int) ([]core.Interaction, error) {
	const query = `
		SELECT content_id, content_type, action_type, created_at
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: recent interactions: %w", err)
	}
	defer rows.Close()

	var out []core.Interaction
	for rows.Next() {
		var it core.Interaction
		var ct string
		if err := rows.Scan(&it.ContentID, &ct, &it.ActionType, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan interaction: %w", err)
		}
		it.ContentType = core.ContentType(ct)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: recent interactions: %w", err)
	}
	return out, nil
}

func (s *InteractionStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
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

var _ core.InteractionStore = (*InteractionStore)(nil)
