package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// feed 引擎的运行指标，注册到默认 registry，由宿主进程统一暴露。
var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedkit_cache_hits_total",
		Help: "Feed cache reads served directly from cache.",
	}, []string{"content_type"})

	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedkit_cache_misses_total",
		Help: "Feed cache reads that required recomputation.",
	}, []string{"content_type"})

	generateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedkit_generate_duration_seconds",
		Help:    "Wall time of full feed generation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"content_type"})

	refillFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedkit_refill_failures_total",
		Help: "Background feed refills that ended in error.",
	})
)
