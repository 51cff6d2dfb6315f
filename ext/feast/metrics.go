// Package feast 提供基于 Feast Feature Store 的互动指标读取。
//
// 当互动计数（点赞、评论、转发）已经物化到 Feast 在线存储时，
// 打分节点可以从特征服务读取指标，避免回源内容库。
//
// 使用场景：
//   - 指标由离线管道聚合后物化到 Feast
//   - 打分时通过 gRPC 低延迟批量读取
package feast

import (
	"context"
	"fmt"
	"strings"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/fiyolabs/feedkit/core"
)

// 默认特征视图与实体键，需与 Feast 仓库中的定义保持一致。
const (
	defaultFeatureView = "content_engagement"
	defaultEntityKey   = "content_id"
)

// MetricsProvider 是 core.MetricsProvider 的 Feast 实现。
//
// 每个内容是一个实体行，特征为：
//   - <view>:likes_count    INT64
//   - <view>:comments_count INT64
//   - <view>:shares_count   INT64
//   - <view>:hashtags       STRING（逗号分隔）
type MetricsProvider struct {
	client      *feastsdk.GrpcClient
	project     string
	featureView string
	entityKey   string
}

type Option func(*MetricsProvider)

// WithFeatureView 覆盖默认特征视图名。
func WithFeatureView(view string) Option {
	return func(p *MetricsProvider) { p.featureView = view }
}

// WithEntityKey 覆盖默认实体键名。
func WithEntityKey(key string) Option {
	return func(p *MetricsProvider) { p.entityKey = key }
}

// NewMetricsProvider 连接 Feast Feature Server（gRPC，默认端口 6565）。
func NewMetricsProvider(host string, port int, project string, opts ...Option) (*MetricsProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("feast: connect %s:%d: %w", host, port, err)
	}
	p := &MetricsProvider{
		client:      client,
		project:     project,
		featureView: defaultFeatureView,
		entityKey:   defaultEntityKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *MetricsProvider) featureNames() (likes, comments, shares, hashtags string) {
	likes = p.featureView + ":likes_count"
	comments = p.featureView + ":comments_count"
	shares = p.featureView + ":shares_count"
	hashtags = p.featureView + ":hashtags"
	return
}

// FetchMetrics 批量读取在线特征并还原成互动指标。
// Feast 中缺失的内容返回零值指标，不视为错误。
func (p *MetricsProvider) FetchMetrics(ctx context.Context, ct core.ContentType, ids []string) (map[string]core.Metrics, error) {
	if len(ids) == 0 {
		return map[string]core.Metrics{}, nil
	}

	likesF, commentsF, sharesF, hashtagsF := p.featureNames()

	entities := make([]feastsdk.Row, len(ids))
	for i, id := range ids {
		entities[i] = feastsdk.Row{p.entityKey: feastsdk.StrVal(id)}
	}

	resp, err := p.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: []string{likesF, commentsF, sharesF, hashtagsF},
		Entities: entities,
		Project:  p.project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast: get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(ids) {
		return nil, fmt.Errorf("feast: row count mismatch: want %d got %d", len(ids), len(rows))
	}

	out := make(map[string]core.Metrics, len(ids))
	for i, id := range ids {
		row := rows[i]
		out[id] = core.Metrics{
			LikesCount:    int(int64Val(row[likesF])),
			CommentsCount: int(int64Val(row[commentsF])),
			SharesCount:   int(int64Val(row[sharesF])),
			Hashtags:      splitTags(strVal(row[hashtagsF])),
		}
	}
	return out, nil
}

func int64Val(v *feasttypes.Value) int64 {
	if v == nil {
		return 0
	}
	return v.GetInt64Val()
}

func strVal(v *feasttypes.Value) string {
	if v == nil {
		return ""
	}
	return v.GetStringVal()
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// Close 关闭 gRPC 连接。
func (p *MetricsProvider) Close() error {
	p.client = nil
	return nil
}

var _ core.MetricsProvider = (*MetricsProvider)(nil)
