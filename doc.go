// Package feedkit 是一个个性化 Feed 生成与排序工具包。
//
// 设计要点：
// - Pipeline-first: Feed 生成通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 存储可插拔: 缓存与内容库通过 core 接口抽象（Redis / PostgreSQL / 内存实现）
package feedkit

import "github.com/fiyolabs/feedkit/pipeline"

// 轻量 facade：便于用户直接 import "feedkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
