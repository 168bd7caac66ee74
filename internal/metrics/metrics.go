// Package metrics exposes the process-wide Prometheus HTTP server. The
// cache's own counters and gauges (rattlecache_hits_total and friends) are
// registered directly against prometheus.DefaultRegisterer by
// internal/cache/metrics.go; this package only serves them.
package metrics
