package idcache

import (
	"context"
	"iter"
	"reflect"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/puzpuzpuz/xsync"
)

// StoreConfig controls Store instance.
type StoreConfig struct {
	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker

	// Name is store instance name, used in stats and logging.
	Name string

	// Now is a clock for entry timestamps and sweeps, default time.Now.
	Now func() time.Time
}

// Store is a concurrency-safe map of values by their identity.
//
// Mutations and sweeps are exclusive, reads run concurrently with each other.
// Store must not be copied after first use.
type Store[T Identifiable] struct {
	mu   xsync.RBMutex
	data map[string]*Entry[T]

	config StoreConfig
	log    ctxd.Logger
	stat   stats.Tracker
	now    func() time.Time
}

// NewStore creates an empty store with optional configuration.
func NewStore[T Identifiable](cfg ...StoreConfig) *Store[T] {
	config := StoreConfig{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	s := &Store[T]{
		data:   make(map[string]*Entry[T]),
		config: config,
		log:    config.Logger,
		stat:   config.Stats,
		now:    config.Now,
	}

	if s.log == nil {
		s.log = ctxd.NoOpLogger{}
	}

	if s.stat == nil {
		s.stat = stats.NoOp{}
	}

	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Name returns store instance name.
func (s *Store[T]) Name() string {
	return s.config.Name
}

// Get returns value by identity.
func (s *Store[T]) Get(id string) (T, bool) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)

	e, found := s.data[id]
	if !found {
		var zero T

		return zero, false
	}

	return e.value, true
}

// Entry returns a copy of stored entry by identity.
func (s *Store[T]) Entry(id string) (Entry[T], bool) {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)

	e, found := s.data[id]
	if !found {
		return Entry[T]{}, false
	}

	return *e, true
}

// AddOrUpdate stores value or refreshes existing entry with the same identity.
//
// Equal value (Equal method or deep equality) only refreshes timestamp, different value replaces stored one.
func (s *Store[T]) AddOrUpdate(v T) {
	s.mu.Lock()
	s.addOrUpdateLocked(v)
	s.mu.Unlock()
}

// AddOrUpdateAll applies AddOrUpdate to every value in order.
func (s *Store[T]) AddOrUpdateAll(values ...T) {
	for _, v := range values {
		s.AddOrUpdate(v)
	}
}

// Add stores a new value, it fails with *AlreadyExistsError if identity is already present.
func (s *Store[T]) Add(v T) error {
	id := v.Identity()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.data[id]; found {
		return &AlreadyExistsError{ID: id}
	}

	s.addOrUpdateLocked(v)

	return nil
}

func (s *Store[T]) addOrUpdateLocked(v T) {
	ctx := context.Background()
	id := v.Identity()
	now := s.now()

	e, found := s.data[id]
	if !found {
		s.data[id] = &Entry[T]{value: v, refreshed: now}

		s.log.Debug(ctx, "added to store", "name", s.config.Name, "id", id)
		s.stat.Add(ctx, MetricWrite, 1, "name", s.config.Name)

		return
	}

	if equal(e.value, v) {
		e.refresh(e.value, now)
		s.stat.Add(ctx, MetricRefreshed, 1, "name", s.config.Name)

		return
	}

	e.refresh(v, now)

	s.log.Debug(ctx, "updated in store", "name", s.config.Name, "id", id)
	s.stat.Add(ctx, MetricChanged, 1, "name", s.config.Name)
}

// Remove deletes entry of value identity, it returns false if nothing was removed.
func (s *Store[T]) Remove(v T) bool {
	return s.RemoveID(v.Identity())
}

// RemoveID deletes entry by identity, it returns false if nothing was removed.
func (s *Store[T]) RemoveID(id string) bool {
	s.mu.Lock()
	_, found := s.data[id]
	delete(s.data, id)
	s.mu.Unlock()

	if found {
		s.stat.Add(context.Background(), MetricRemove, 1, "name", s.config.Name)
	}

	return found
}

// Contains checks if value identity is present.
func (s *Store[T]) Contains(v T) bool {
	_, found := s.Get(v.Identity())

	return found
}

// Count returns number of entries.
func (s *Store[T]) Count() int {
	t := s.mu.RLock()
	cnt := len(s.data)
	s.mu.RUnlock(t)

	return cnt
}

// Clear deletes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.data = make(map[string]*Entry[T])
	s.mu.Unlock()

	s.log.Debug(context.Background(), "store cleared", "name", s.config.Name)
	s.stat.Add(context.Background(), MetricClear, 1, "name", s.config.Name)
}

// Values returns a snapshot of stored values in no particular order.
func (s *Store[T]) Values() []T {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)

	values := make([]T, 0, len(s.data))
	for _, e := range s.data {
		values = append(values, e.value)
	}

	return values
}

// Entries returns a sequence over a snapshot of entries.
//
// Snapshot is taken each time the sequence is ranged over, later mutations are not observed.
func (s *Store[T]) Entries() iter.Seq[Entry[T]] {
	return func(yield func(Entry[T]) bool) {
		for _, e := range s.snapshot() {
			if !yield(e) {
				return
			}
		}
	}
}

func (s *Store[T]) snapshot() []Entry[T] {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)

	entries := make([]Entry[T], 0, len(s.data))
	for _, e := range s.data {
		entries = append(entries, *e)
	}

	return entries
}

// exclusive runs fn holding exclusive lock, fn may delete from data.
func (s *Store[T]) exclusive(fn func(data map[string]*Entry[T], now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.data, s.now())
}

func equal[T Identifiable](a, b T) bool {
	if eq, ok := any(a).(interface{ Equal(other T) bool }); ok {
		return eq.Equal(b)
	}

	return reflect.DeepEqual(a, b)
}
