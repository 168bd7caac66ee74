package cache

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kvgrid/rattlecache/internal/apperrors"
	"github.com/rs/zerolog"
)

// Options holds the configuration needed to construct a cache instance.
// MemoryLimitMB and SerializeLimitMB are megabytes at this public boundary,
// per spec.md §6; they are converted to bytes by the provider.
type Options struct {
	// MemoryLimitMB is the total memory budget in megabytes. Must be > 0.
	MemoryLimitMB int

	// Mode selects the eviction policy. One of ModeLRU, ModeLRA, ModeLFU.
	Mode Mode

	// SerializeLimitMB is the size, in megabytes, at or above which a
	// value is stored in serialized form. Zero disables serialization.
	// Must be >= 0.
	SerializeLimitMB int

	// Group is an optional label used to namespace Prometheus metrics
	// (rattlecache_hits_total, etc.). When empty, no metrics are recorded.
	Group string

	// Logger receives structured diagnostics: each eviction is logged at
	// debug level. Capacity rejections and serialization failures are not
	// logged; they are returned as errors (and reported when ReportErrors
	// is set). Nil discards everything.
	Logger *zerolog.Logger

	// ReportErrors, when true, additionally reports capacity_exceeded and
	// serialization_failure errors via getsentry/sentry-go. Safe to leave
	// true with no Sentry client configured: CaptureException is a no-op
	// without an initialized client.
	ReportErrors bool
}

// Provider constructs a *Cache from Options for one registered mode.
type Provider func(opts Options) (*Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[Mode]Provider)
)

// Register registers a cache provider under the given mode. It panics if
// the mode is already registered or the provider is nil — mirroring the
// factory pattern's own defensive checks, since both are programmer
// errors caught at init time, not runtime conditions callers can recover
// from.
func Register(mode Mode, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[mode]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", mode))
	}
	providers[mode] = p
}

// New constructs a *Cache for opts.Mode. It returns apperrors.ErrInvalidMode
// if the mode isn't registered, or apperrors.ErrInvalidLimit if the memory
// or serialize limit is out of range.
func New(opts Options) (*Cache, error) {
	mu.RLock()
	p, ok := providers[opts.Mode]
	mu.RUnlock()

	if !ok {
		return nil, apperrors.NewInvalidModeError(string(opts.Mode))
	}
	return p(opts)
}

// RegisteredModes returns a sorted list of registered eviction modes.
func RegisteredModes() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for mode := range providers {
		names = append(names, string(mode))
	}
	sort.Strings(names)
	return names
}
