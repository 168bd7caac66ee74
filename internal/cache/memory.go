// Package cache implements the bounded-memory key-value cache core:
// admission, eviction, and byte accounting shared across the LRU, LRA, and
// LFU policies registered in lru.go and lfu.go.
package cache

import (
	"sync"

	"github.com/kvgrid/rattlecache/internal/apperrors"
	"github.com/rs/zerolog"
)

const bytesPerMB = 1024 * 1024

// Cache is a bounded-memory, single-instance key-value store with
// policy-driven eviction, per spec.md §3. All exported methods are safe
// for concurrent use: each executes as one atomic critical section under
// a single mutex, per spec.md §5.
type Cache struct {
	mu sync.Mutex

	mode                    Mode
	limitBytes              int64
	serializeThresholdBytes int64

	entries map[string]*entry
	policy  policy
	newPoly func() policy

	totalBytes int64
	counter    int64

	codec        *codec
	logger       zerolog.Logger
	metrics      *cacheMetrics
	reportErrors bool
}

// newCacheCore validates opts and constructs a *Cache backed by newPolicy.
// It is the shared body every registered Provider (lru.go, lfu.go) calls
// into after choosing its policy constructor.
func newCacheCore(opts Options, newPolicy func() policy) (*Cache, error) {
	if opts.MemoryLimitMB <= 0 {
		return nil, apperrors.NewInvalidLimitError("memory_limit", int64(opts.MemoryLimitMB))
	}
	if opts.SerializeLimitMB < 0 {
		return nil, apperrors.NewInvalidLimitError("serialize_limit", int64(opts.SerializeLimitMB))
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	c := &Cache{
		mode:                    opts.Mode,
		limitBytes:              int64(opts.MemoryLimitMB) * bytesPerMB,
		serializeThresholdBytes: int64(opts.SerializeLimitMB) * bytesPerMB,
		entries:                 make(map[string]*entry),
		policy:                  newPolicy(),
		newPoly:                 newPolicy,
		codec:                   newCodec(),
		logger:                  logger,
		reportErrors:            opts.ReportErrors,
	}
	if opts.Group != "" {
		c.metrics = newCacheMetrics(opts.Group, c.MemoryUsageBytes)
	}
	return c, nil
}

// newCacheForTest builds a *Cache directly from byte limits, bypassing the
// megabyte-granularity public constructor. spec.md §8 calls this out
// explicitly as a "test hook to set bytes directly" — end-to-end scenarios
// need memory limits as small as 100 bytes.
func newCacheForTest(mode Mode, limitBytes, serializeThresholdBytes int64) (*Cache, error) {
	var newPolicy func() policy
	switch mode {
	case ModeLRU:
		newPolicy = func() policy { return newOrderedPolicy(true) }
	case ModeLRA:
		newPolicy = func() policy { return newOrderedPolicy(false) }
	case ModeLFU:
		newPolicy = func() policy { return newFrequencyPolicy() }
	default:
		return nil, apperrors.NewInvalidModeError(string(mode))
	}
	if limitBytes <= 0 {
		return nil, apperrors.NewInvalidLimitError("memory_limit_bytes", limitBytes)
	}
	if serializeThresholdBytes < 0 {
		return nil, apperrors.NewInvalidLimitError("serialize_limit_bytes", serializeThresholdBytes)
	}
	return &Cache{
		mode:                    mode,
		limitBytes:              limitBytes,
		serializeThresholdBytes: serializeThresholdBytes,
		entries:                 make(map[string]*entry),
		policy:                  newPolicy(),
		newPoly:                 newPolicy,
		codec:                   newCodec(),
		logger:                  zerolog.Nop(),
	}, nil
}

// Put inserts or replaces the entry under id, evicting victims per the
// active policy until the new value fits. Per spec.md §4.1.2, replacing an
// existing id is treated as a fresh admission, not an access.
func (c *Cache) Put(id string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.put(id, value)
}

func (c *Cache) put(id string, value any) error {
	payload, serializedData, serialized, chargedBytes, err := c.prepareEntry(id, value)
	if err != nil {
		return err
	}
	tick := c.nextTick()
	return c.admit(id, payload, serializedData, serialized, chargedBytes, tick, c.policy.insert)
}

// putSized bypasses estimatedSize/serialization and stores value live with
// an exact, caller-supplied charged size. It exists only for tests that
// need deterministic, predictable byte counts (spec.md §8's "test hook").
func (c *Cache) putSized(id string, value any, chargedBytes int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	tick := c.nextTick()
	return c.admit(id, value, nil, false, chargedBytes, tick, c.policy.insert)
}

// Get retrieves the value stored under id, deserializing it first if
// necessary, and updates policy metadata per the active mode (spec.md
// §4.1.3). Returns apperrors.ErrNotFound if id is absent.
func (c *Cache) Get(id string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		c.recordMiss()
		return nil, apperrors.NewNotFoundError(id)
	}
	c.recordHit()

	tick := c.nextTick()
	c.policy.access(id, tick)

	if !e.serialized {
		return e.value, nil
	}
	v, err := c.codec.decode(e.serializedData)
	if err != nil {
		failErr := apperrors.NewSerializationFailureError(id, "decode", err)
		c.reportError(failErr)
		return nil, failErr
	}
	return v, nil
}

// Update replaces the value stored under id, recomputing charged_bytes and
// re-choosing the serialized/live form. Policy metadata is treated as an
// access, not a fresh insertion (spec.md §4.1.1). Returns
// apperrors.ErrNotFound if id is absent.
func (c *Cache) Update(id string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return apperrors.NewNotFoundError(id)
	}

	payload, serializedData, serialized, chargedBytes, err := c.prepareEntry(id, value)
	if err != nil {
		return err
	}
	tick := c.nextTick()
	// admit drops id's policy bookkeeping before re-admitting it; restoring
	// that bookkeeping before policy.update lets the update build on it
	// (LFU increments the existing frequency instead of restarting at 1).
	snap := c.policy.snapshot(id)
	reposition := func(id string, tick int64) {
		c.policy.restore(id, snap)
		c.policy.update(id, tick)
	}
	return c.admit(id, payload, serializedData, serialized, chargedBytes, tick, reposition)
}

// Delete removes the entry stored under id. Returns apperrors.ErrNotFound
// if id is absent.
func (c *Cache) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return apperrors.NewNotFoundError(id)
	}
	delete(c.entries, id)
	c.policy.remove(id)
	c.totalBytes -= e.chargedBytes
	return nil
}

// Contains reports whether id exists, without counting as an access.
func (c *Cache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

// Clear removes all entries. The monotonic counter is preserved rather
// than reset — see DESIGN.md for the Open Question resolution.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.policy = c.newPoly()
	c.totalBytes = 0
}

// Overview returns a snapshot mapping each id to its charged_bytes.
func (c *Cache) Overview() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make(map[string]int64, len(c.entries))
	for id, e := range c.entries {
		snapshot[id] = e.chargedBytes
	}
	return snapshot
}

// Identifiers returns a snapshot of all ids currently in the cache.
func (c *Cache) Identifiers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	return ids
}

// MemoryUsageBytes returns the current total_charged_bytes.
func (c *Cache) MemoryUsageBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}

// MemoryUsageMB returns the current memory usage in megabytes.
func (c *Cache) MemoryUsageMB() float64 {
	return float64(c.MemoryUsageBytes()) / float64(bytesPerMB)
}

// MemoryUsageFraction returns total_charged_bytes / memory_limit_bytes.
func (c *Cache) MemoryUsageFraction() float64 {
	c.mu.Lock()
	limit := c.limitBytes
	c.mu.Unlock()
	if limit == 0 {
		return 0
	}
	return float64(c.MemoryUsageBytes()) / float64(limit)
}

// Mode returns the cache's fixed eviction mode.
func (c *Cache) Mode() Mode {
	return c.mode
}

// prepareEntry computes the stored form and charged size for value, per
// spec.md §4.1.2 step 1: serialize if serialization is enabled and the raw
// estimated size crosses the threshold, otherwise keep the live value.
func (c *Cache) prepareEntry(id string, value any) (payload any, serializedData []byte, serialized bool, chargedBytes int64, err error) {
	rawSize := estimatedSize(value)
	if c.serializeThresholdBytes > 0 && rawSize >= c.serializeThresholdBytes {
		data, encErr := c.codec.encode(value)
		if encErr != nil {
			failErr := apperrors.NewSerializationFailureError(id, "encode", encErr)
			c.reportError(failErr)
			return nil, nil, false, 0, failErr
		}
		return nil, data, true, int64(len(data)) + serializedOverheadBytes, nil
	}
	return value, nil, false, rawSize, nil
}

// admit runs the admission/eviction algorithm of spec.md §4.1.2 for one
// prepared entry, repositioning it via reposition (policy.insert for a
// fresh put, policy.update for an explicit update). Caller holds c.mu.
func (c *Cache) admit(id string, value any, serializedData []byte, serialized bool, chargedBytes int64, tick int64, reposition func(string, int64)) error {
	old, hadOld := c.entries[id]
	var oldSnapshot any
	if hadOld {
		oldSnapshot = c.policy.snapshot(id)
		c.totalBytes -= old.chargedBytes
		c.policy.remove(id)
		delete(c.entries, id)
	}

	// No amount of eviction makes the new value fit on its own: reject
	// now, before touching any other entry, so a rejected admission truly
	// leaves the rest of the cache untouched.
	if chargedBytes > c.limitBytes {
		if hadOld {
			c.entries[id] = old
			c.totalBytes += old.chargedBytes
			c.policy.restore(id, oldSnapshot)
		}
		c.recordCapacityRejection()
		rejectErr := apperrors.NewCapacityExceededError(id, chargedBytes, c.limitBytes)
		c.reportError(rejectErr)
		return rejectErr
	}

	for c.totalBytes+chargedBytes > c.limitBytes && c.policy.len() > 0 {
		victimID, ok := c.policy.victim()
		if !ok {
			break
		}
		c.evictLocked(victimID)
	}

	c.entries[id] = &entry{
		id:             id,
		value:          value,
		serializedData: serializedData,
		serialized:     serialized,
		chargedBytes:   chargedBytes,
	}
	reposition(id, tick)
	c.totalBytes += chargedBytes
	return nil
}

// evictLocked removes id as a policy-chosen victim. Caller holds c.mu.
func (c *Cache) evictLocked(id string) {
	e, ok := c.entries[id]
	if !ok {
		c.policy.remove(id)
		return
	}
	delete(c.entries, id)
	c.policy.remove(id)
	c.totalBytes -= e.chargedBytes
	c.recordEviction()
	c.logger.Debug().Str("id", id).Int64("charged_bytes", e.chargedBytes).Str("mode", string(c.mode)).Msg("evicted cache entry")
}

// nextTick returns a fresh, strictly increasing monotonic_counter value.
// Caller holds c.mu.
func (c *Cache) nextTick() int64 {
	c.counter++
	return c.counter
}
