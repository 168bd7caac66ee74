package cache

import "container/list"

// orderedPolicy backs both LRU and LRA: an insertion-ordered doubly linked
// list (container/list) with the least-recent/least-recently-added entry
// at the front and the most-recent at the back. The only difference
// between the two modes is whether a get-hit repositions the entry —
// captured by reorderOnAccess.
//
// This is the "explicit linked structure indexed by a hash" option spec.md
// §9 calls out as one of two idiomatic choices, the same shape
// hashicorp/golang-lru's simplelru package uses internally for its own
// move-to-end bookkeeping.
type orderedPolicy struct {
	reorderOnAccess bool
	list            *list.List
	elems           map[string]*list.Element
}

func newOrderedPolicy(reorderOnAccess bool) *orderedPolicy {
	return &orderedPolicy{
		reorderOnAccess: reorderOnAccess,
		list:            list.New(),
		elems:           make(map[string]*list.Element),
	}
}

func init() {
	Register(ModeLRU, func(opts Options) (*Cache, error) {
		return newCacheCore(opts, func() policy { return newOrderedPolicy(true) })
	})
	Register(ModeLRA, func(opts Options) (*Cache, error) {
		return newCacheCore(opts, func() policy { return newOrderedPolicy(false) })
	})
}

// insert always places id at the most-recent end, whether it's a brand-new
// key or a replacement — matching LRA's rule that only put/update
// reposition, and LRU's rule that every admission does.
func (p *orderedPolicy) insert(id string, _ int64) {
	p.removeElem(id)
	p.elems[id] = p.list.PushBack(id)
}

func (p *orderedPolicy) access(id string, _ int64) {
	if !p.reorderOnAccess {
		return
	}
	if e, ok := p.elems[id]; ok {
		p.list.MoveToBack(e)
	}
}

// update is a write event under both modes: it repositions id to the
// most-recent end regardless of reorderOnAccess.
func (p *orderedPolicy) update(id string, _ int64) {
	if e, ok := p.elems[id]; ok {
		p.list.MoveToBack(e)
		return
	}
	p.elems[id] = p.list.PushBack(id)
}

func (p *orderedPolicy) remove(id string) {
	p.removeElem(id)
}

func (p *orderedPolicy) removeElem(id string) {
	if e, ok := p.elems[id]; ok {
		p.list.Remove(e)
		delete(p.elems, id)
	}
}

// orderedSnapshot records id's immediate neighbors at snapshot time, so
// restore can reinsert it at the same position instead of at the
// most-recent end.
type orderedSnapshot struct {
	prevID  string
	hasPrev bool
	nextID  string
	hasNext bool
}

func (p *orderedPolicy) snapshot(id string) any {
	e, ok := p.elems[id]
	if !ok {
		return nil
	}
	var snap orderedSnapshot
	if prev := e.Prev(); prev != nil {
		snap.prevID, snap.hasPrev = prev.Value.(string), true
	}
	if next := e.Next(); next != nil {
		snap.nextID, snap.hasNext = next.Value.(string), true
	}
	return snap
}

// restore reinserts id next to whichever neighbor from the snapshot is
// still present, preferring the predecessor so id lands in the same slot
// it occupied before removal. It never repositions id to the most-recent
// end the way insert/update do.
func (p *orderedPolicy) restore(id string, snap any) {
	s, _ := snap.(orderedSnapshot)
	if s.hasPrev {
		if prev, ok := p.elems[s.prevID]; ok {
			p.elems[id] = p.list.InsertAfter(id, prev)
			return
		}
	}
	if s.hasNext {
		if next, ok := p.elems[s.nextID]; ok {
			p.elems[id] = p.list.InsertBefore(id, next)
			return
		}
	}
	p.elems[id] = p.list.PushFront(id)
}

func (p *orderedPolicy) victim() (string, bool) {
	front := p.list.Front()
	if front == nil {
		return "", false
	}
	return front.Value.(string), true
}

func (p *orderedPolicy) len() int {
	return p.list.Len()
}
