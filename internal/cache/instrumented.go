package cache

// Metric recording lives directly on *Cache rather than behind a second
// wrapper type, because — unlike the teacher, whose Cache interface has
// multiple backends (memory, redis) — this cache core has exactly one
// implementation. Each method is a no-op when Options.Group was left
// empty, so unmetered callers pay nothing for instrumentation they didn't
// ask for.

func (c *Cache) recordHit() {
	if c.metrics == nil {
		return
	}
	HitsTotal.WithLabelValues(c.metrics.group).Inc()
}

func (c *Cache) recordMiss() {
	if c.metrics == nil {
		return
	}
	MissesTotal.WithLabelValues(c.metrics.group).Inc()
}

func (c *Cache) recordEviction() {
	if c.metrics == nil {
		return
	}
	EvictionsTotal.WithLabelValues(c.metrics.group, string(c.mode)).Inc()
}

func (c *Cache) recordCapacityRejection() {
	if c.metrics == nil {
		return
	}
	CapacityRejectionsTotal.WithLabelValues(c.metrics.group).Inc()
}

// Close releases the resources backing metric instrumentation (the lazy
// bytes-used collector). Caches created without Options.Group need not
// call it, but doing so is always safe.
func (c *Cache) Close() error {
	c.mu.Lock()
	group := ""
	if c.metrics != nil {
		group = c.metrics.group
	}
	c.mu.Unlock()

	if group != "" {
		unregisterBytesCollector(group)
	}
	return nil
}
