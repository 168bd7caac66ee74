package cache

import "container/heap"

func init() {
	Register(ModeLFU, func(opts Options) (*Cache, error) {
		return newCacheCore(opts, func() policy { return newFrequencyPolicy() })
	})
}

// freqMeta is the authoritative (frequency, tick) pair for one id, per
// spec.md §4.1.3's "frequency counter plus tie-break sequence" policy
// metadata.
type freqMeta struct {
	freq int64
	tick int64
}

// heapItem is a point-in-time snapshot pushed onto the min-heap every time
// an id's frequency changes. It may go stale the moment a later access
// updates the same id's freqMeta — victim() detects and discards stale
// snapshots by comparing against the authoritative map, the lazy
// invalidation strategy spec.md §9 describes as one acceptable design for
// an O(log n) LFU, and the one the original Python implementation
// uses via heapq.
type heapItem struct {
	id   string
	freq int64
	tick int64
}

type itemHeap []*heapItem

func (h itemHeap) Len() int { return len(h) }
func (h itemHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].tick < h[j].tick
}
func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x any)   { *h = append(*h, x.(*heapItem)) }
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// frequencyPolicy backs LFU mode. Victim selection is the entry minimizing
// (frequency, tick) lexicographically, per spec.md §4.1.3.
type frequencyPolicy struct {
	meta map[string]*freqMeta
	heap itemHeap
}

func newFrequencyPolicy() *frequencyPolicy {
	return &frequencyPolicy{
		meta: make(map[string]*freqMeta),
	}
}

func (p *frequencyPolicy) push(id string) {
	m := p.meta[id]
	heap.Push(&p.heap, &heapItem{id: id, freq: m.freq, tick: m.tick})
}

// insert sets frequency to 1 on a fresh insertion, matching both
// brand-new keys and admission replacements (spec.md §4.1.3: "put sets the
// counter to 1 on a fresh insertion and resets to 1 on replacement").
func (p *frequencyPolicy) insert(id string, tick int64) {
	p.meta[id] = &freqMeta{freq: 1, tick: tick}
	p.push(id)
}

// access increments frequency on a get-hit.
func (p *frequencyPolicy) access(id string, tick int64) {
	m, ok := p.meta[id]
	if !ok {
		return
	}
	m.freq++
	m.tick = tick
	p.push(id)
}

// update handles an explicit update(id, value) call. Cache.Update restores
// id's (frequency, tick) before calling this, so the common path is the
// access branch: the frequency is incremented. If id is not tracked,
// update falls back to a fresh insertion, mirroring orderedPolicy.update's
// PushBack fallback, rather than delegating to access and silently
// dropping id out of the heap for good.
func (p *frequencyPolicy) update(id string, tick int64) {
	if _, ok := p.meta[id]; !ok {
		p.insert(id, tick)
		return
	}
	p.access(id, tick)
}

func (p *frequencyPolicy) remove(id string) {
	delete(p.meta, id)
}

// snapshot returns a copy of id's current (frequency, tick) pair, or nil if
// id is not tracked.
func (p *frequencyPolicy) snapshot(id string) any {
	m, ok := p.meta[id]
	if !ok {
		return nil
	}
	return freqMeta{freq: m.freq, tick: m.tick}
}

// restore reinstates id with the exact (frequency, tick) pair captured by
// snapshot, rather than resetting it to freq=1 the way insert does. It
// preserves whatever access history the id had before removal.
func (p *frequencyPolicy) restore(id string, snap any) {
	s, ok := snap.(freqMeta)
	if !ok {
		p.insert(id, 0)
		return
	}
	p.meta[id] = &freqMeta{freq: s.freq, tick: s.tick}
	p.push(id)
}

// victim pops snapshots off the heap until it finds one that still
// matches the authoritative (frequency, tick) for its id — any snapshot
// that doesn't is stale (superseded by a later access/update, or the id
// was removed) and is discarded permanently.
func (p *frequencyPolicy) victim() (string, bool) {
	for p.heap.Len() > 0 {
		item := heap.Pop(&p.heap).(*heapItem)
		m, ok := p.meta[item.id]
		if !ok {
			continue
		}
		if m.freq == item.freq && m.tick == item.tick {
			return item.id, true
		}
	}
	return "", false
}

func (p *frequencyPolicy) len() int {
	return len(p.meta)
}
