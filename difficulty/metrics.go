package difficulty

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smileycoin/smlypow/chaincfg"
	"github.com/smileycoin/smlypow/util"
)

const (
	engineLegacy    = "legacy"
	engineMultiAlgo = "multialgo"

	reasonMinDifficulty = "min_difficulty"
	reasonShortHistory  = "short_history"
)

var (
	prometheusDifficultyRetargets      *prometheus.CounterVec
	prometheusDifficultyFloorFallbacks *prometheus.CounterVec
	prometheusDifficultyNextWork       prometheus.Histogram
	prometheusDifficultyReplayBlocks   prometheus.Counter
	prometheusDifficultyReplay         prometheus.Histogram
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusDifficultyRetargets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smlypow",
			Subsystem: "difficulty",
			Name:      "next_work_required",
			Help:      "Number of next work computations by engine and algorithm",
		},
		[]string{"engine", "algo"},
	)

	prometheusDifficultyFloorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smlypow",
			Subsystem: "difficulty",
			Name:      "floor_fallbacks",
			Help:      "Number of computations that returned the pow limit, by reason",
		},
		[]string{"reason"},
	)

	prometheusDifficultyNextWork = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "smlypow",
			Subsystem: "difficulty",
			Name:      "next_work_required_duration",
			Help:      "Histogram of next work computation time",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusDifficultyReplayBlocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "smlypow",
			Subsystem: "difficulty",
			Name:      "replay_blocks",
			Help:      "Number of blocks checked by chain replay",
		},
	)

	prometheusDifficultyReplay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "smlypow",
			Subsystem: "difficulty",
			Name:      "replay_duration",
			Help:      "Histogram of chain replay time",
			Buckets:   util.MetricsBucketsMilliLongSeconds,
		},
	)
}

func observeNextWork(engine string, algo chaincfg.Algo, start time.Time) {
	prometheusDifficultyRetargets.WithLabelValues(engine, algo.String()).Inc()
	prometheusDifficultyNextWork.Observe(time.Since(start).Seconds())
}

func floorFallback(reason string) {
	prometheusDifficultyFloorFallbacks.WithLabelValues(reason).Inc()
}
