package idcache

import "time"

// Entry is a stored value with the time of its last refresh.
type Entry[T Identifiable] struct {
	value     T
	refreshed time.Time
}

// Value returns stored value.
func (e Entry[T]) Value() T {
	return e.value
}

// Identity returns identity of stored value.
func (e Entry[T]) Identity() string {
	return e.value.Identity()
}

// RefreshedAt returns time of last AddOrUpdate.
func (e Entry[T]) RefreshedAt() time.Time {
	return e.refreshed
}

// Age returns duration since last refresh.
func (e Entry[T]) Age(now time.Time) time.Duration {
	return now.Sub(e.refreshed)
}

// refresh replaces value and moves timestamp forward, timestamp never goes back.
func (e *Entry[T]) refresh(v T, now time.Time) {
	e.value = v

	if now.After(e.refreshed) {
		e.refreshed = now
	}
}
