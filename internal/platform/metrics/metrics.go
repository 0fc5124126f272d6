package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	StatusTransitions    *prometheus.CounterVec
	TransitionRejections *prometheus.CounterVec
	SlotVerifications    *prometheus.CounterVec
	CacheHits            prometheus.Counter
	CacheMisses          prometheus.Counter
	CacheInvalidations   prometheus.Counter
	CacheFallbacks       prometheus.Counter
	ActivityDropped      prometheus.Counter
	ActivityFailed       prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docroute_status_transitions_total",
			Help: "Completed document status transitions by edge",
		}, []string{"from", "to"}),
		TransitionRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docroute_transition_rejections_total",
			Help: "Rejected status transitions by error code",
		}, []string{"code"}),
		SlotVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docroute_slot_verifications_total",
			Help: "Supplementary slot verification decisions",
		}, []string{"verdict"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_cache_hits_total",
			Help: "Cache-aside reads served from the cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_cache_misses_total",
			Help: "Cache-aside reads that fell through to the loader",
		}),
		CacheInvalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_cache_invalidations_total",
			Help: "Tag invalidations executed after mutations",
		}),
		CacheFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_cache_fallbacks_total",
			Help: "Cache operations served by the in-process fallback store",
		}),
		ActivityDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_activity_dropped_total",
			Help: "Activity events dropped because the async buffer was full",
		}),
		ActivityFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_activity_failed_total",
			Help: "Activity events whose persistence failed (swallowed)",
		}),
	}
}
