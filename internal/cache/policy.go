package cache

// Mode selects the eviction policy for a cache instance, fixed for its
// lifetime.
type Mode string

const (
	// ModeLRU evicts the least-recently-used entry; get, put, and update
	// all count as an access.
	ModeLRU Mode = "LRU"
	// ModeLRA evicts the least-recently-added entry; only put and update
	// (write events) reposition an entry, get never does.
	ModeLRA Mode = "LRA"
	// ModeLFU evicts the least-frequently-used entry, tie-broken by the
	// oldest access among entries with equal frequency.
	ModeLFU Mode = "LFU"
)

// policy is the auxiliary ordering structure described in spec.md §4.1.3.
// It never holds the payload itself — only the bookkeeping needed to pick
// an eviction victim — so the entry table and the policy structure can be
// kept in lockstep by the core under a single mutex.
type policy interface {
	// insert registers id as a fresh admission (a brand-new key, or a key
	// being replaced — both are "not an access" for LRA/LFU purposes and
	// always (re)position id at the most-recent/highest-priority end).
	insert(id string, tick int64)

	// access records a get-hit against id. For LRA this is a no-op.
	access(id string, tick int64)

	// update records an explicit update(id, value) call against id — a
	// write event. Cache.Update restores id's prior bookkeeping (via
	// restore) before calling update, so update builds on it. If id is not
	// tracked when update runs, it falls back to treating id as a fresh
	// admission rather than silently becoming a no-op, the same way insert
	// would.
	update(id string, tick int64)

	// remove drops id from the structure. Safe to call on an id that was
	// never inserted.
	remove(id string)

	// victim returns the id that should be evicted next, or ok=false if
	// the structure is empty.
	victim() (id string, ok bool)

	// len reports how many live ids the structure is tracking.
	len() int

	// snapshot captures whatever bookkeeping id currently holds, so a
	// later restore can put it back exactly as it was. Called right
	// before a remove that might need undoing.
	snapshot(id string) any

	// restore reinstates id using a value previously returned by
	// snapshot. Unlike insert, it must not treat id as a fresh admission:
	// LFU must not reset its frequency, and list-backed policies must put
	// id back at its old position rather than the most-recent end.
	restore(id string, snap any)
}
