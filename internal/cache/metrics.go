package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache-level Prometheus metrics, adapted from the teacher's cache metrics:
// every series carries a "cache" label equal to the Group set in Options,
// so multiple cache instances remain distinguishable on one dashboard.
var (
	// HitsTotal counts get() calls that found their id.
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rattlecache_hits_total",
			Help: "Total number of cache hits.",
		},
		[]string{"cache"},
	)

	// MissesTotal counts get() calls that did not find their id.
	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rattlecache_misses_total",
			Help: "Total number of cache misses.",
		},
		[]string{"cache"},
	)

	// EvictionsTotal counts entries evicted to make room for an
	// admission, labeled by eviction mode.
	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rattlecache_evictions_total",
			Help: "Total number of entries evicted from the cache.",
		},
		[]string{"cache", "mode"},
	)

	// CapacityRejectionsTotal counts put/update calls rejected because a
	// single value alone exceeds the memory limit.
	CapacityRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rattlecache_capacity_rejections_total",
			Help: "Total number of put/update calls rejected for exceeding the memory limit alone.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		EvictionsTotal,
		CapacityRejectionsTotal,
	)
}

// bytesUsedCollector is a Prometheus Collector that lazily reports a
// cache's current memory usage by calling usageFunc at scrape time,
// avoiding a separately maintained gauge that could drift from the cache's
// own accounting.
type bytesUsedCollector struct {
	desc      *prometheus.Desc
	usageFunc func() int64
}

func (c *bytesUsedCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *bytesUsedCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.usageFunc()))
}

var (
	bytesCollectorMu sync.Mutex
	bytesCollectors  = make(map[string]*bytesUsedCollector)
	// bytesReg is the Prometheus registerer used for bytes-used
	// collectors. A variable so tests can substitute an isolated
	// registry, the same trick the teacher's metrics.go uses.
	bytesReg prometheus.Registerer = prometheus.DefaultRegisterer
)

// cacheMetrics bundles the label value for one instrumented cache
// instance. The lazy bytes-used gauge is registered separately at
// construction time.
type cacheMetrics struct {
	group string
}

func newCacheMetrics(group string, usageFunc func() int64) *cacheMetrics {
	registerBytesCollector(group, usageFunc)
	return &cacheMetrics{group: group}
}

func registerBytesCollector(group string, usageFunc func() int64) {
	desc := prometheus.NewDesc(
		"rattlecache_bytes_used",
		"Current total charged bytes held by the cache.",
		nil,
		prometheus.Labels{"cache": group},
	)
	c := &bytesUsedCollector{desc: desc, usageFunc: usageFunc}

	bytesCollectorMu.Lock()
	defer bytesCollectorMu.Unlock()

	if old, ok := bytesCollectors[group]; ok {
		bytesReg.Unregister(old)
	}
	bytesCollectors[group] = c
	_ = bytesReg.Register(c)
}

func unregisterBytesCollector(group string) {
	bytesCollectorMu.Lock()
	defer bytesCollectorMu.Unlock()
	if c, ok := bytesCollectors[group]; ok {
		bytesReg.Unregister(c)
		delete(bytesCollectors, group)
	}
}
