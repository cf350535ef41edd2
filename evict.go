package idcache

import (
	"sort"
	"sync"
	"time"
)

// CapacityPolicy keeps at most MaxEntries most recently refreshed entries.
//
// Please use Capacity to create instance.
type CapacityPolicy[T Identifiable] struct {
	// MaxEntries is a soft limit of store size, zero disables eviction.
	MaxEntries int

	mu    sync.Mutex
	evict map[string]struct{}
}

// Capacity creates a removal policy that evicts least recently refreshed entries above maxEntries.
func Capacity[T Identifiable](maxEntries int) *CapacityPolicy[T] {
	return &CapacityPolicy[T]{MaxEntries: maxEntries}
}

// Prepare selects overflowing entries of a sweep snapshot.
func (p *CapacityPolicy[T]) Prepare(_ time.Time, entries []Entry[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.evict = nil

	if p.MaxEntries <= 0 || len(entries) <= p.MaxEntries {
		return
	}

	type entry struct {
		id        string
		refreshed time.Time
	}

	candidates := make([]entry, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, entry{id: e.Identity(), refreshed: e.RefreshedAt()})
	}

	// Sort entries to put least recently refreshed in head.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].refreshed.Before(candidates[j].refreshed)
	})

	evictItems := len(candidates) - p.MaxEntries

	p.evict = make(map[string]struct{}, evictItems)
	for i := 0; i < evictItems; i++ {
		p.evict[candidates[i].id] = struct{}{}
	}
}

// ShouldRemove implements RemovalPolicy.
func (p *CapacityPolicy[T]) ShouldRemove(_ time.Time, e Entry[T]) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, found := p.evict[e.Identity()]

	return found, nil
}
