package idcache

import "time"

// NeverRemove is a RemovalPolicy stub.
type NeverRemove[T Identifiable] struct{}

var _ RemovalPolicy[Object] = NeverRemove[Object]{}

// ShouldRemove keeps every entry.
func (NeverRemove[T]) ShouldRemove(time.Time, Entry[T]) (bool, error) {
	return false, nil
}
