package idcache

import "time"

// RemovalPolicy decides whether an entry is stale.
//
// ShouldRemove is called by a sweep holding exclusive store lock, so it must not call the store.
// Time of the sweep is passed as now, all entries of a sweep share it.
type RemovalPolicy[T Identifiable] interface {
	ShouldRemove(now time.Time, e Entry[T]) (bool, error)
}

// Preparer is an optional RemovalPolicy extension, Prepare receives the snapshot of a sweep
// before any ShouldRemove call of that sweep.
type Preparer[T Identifiable] interface {
	Prepare(now time.Time, entries []Entry[T])
}

// RemovalPolicyFunc implements RemovalPolicy with a function.
type RemovalPolicyFunc[T Identifiable] func(now time.Time, e Entry[T]) (bool, error)

// ShouldRemove implements RemovalPolicy.
func (f RemovalPolicyFunc[T]) ShouldRemove(now time.Time, e Entry[T]) (bool, error) {
	return f(now, e)
}

// TTLPolicy removes entries that were not refreshed for longer than TimeToLive.
type TTLPolicy[T Identifiable] struct {
	TimeToLive time.Duration
}

// TTL creates time based removal policy.
func TTL[T Identifiable](ttl time.Duration) TTLPolicy[T] {
	return TTLPolicy[T]{TimeToLive: ttl}
}

// ShouldRemove implements RemovalPolicy.
func (p TTLPolicy[T]) ShouldRemove(now time.Time, e Entry[T]) (bool, error) {
	return e.Age(now) > p.TimeToLive, nil
}

// Any removes an entry if any of policies says so.
//
// Evaluation stops on first positive decision or error.
func Any[T Identifiable](policies ...RemovalPolicy[T]) RemovalPolicy[T] {
	return composite[T]{policies: policies, anyOf: true}
}

// All removes an entry if all policies say so.
//
// Evaluation stops on first negative decision or error.
func All[T Identifiable](policies ...RemovalPolicy[T]) RemovalPolicy[T] {
	return composite[T]{policies: policies}
}

type composite[T Identifiable] struct {
	policies []RemovalPolicy[T]
	anyOf    bool
}

func (c composite[T]) Prepare(now time.Time, entries []Entry[T]) {
	for _, p := range c.policies {
		if pp, ok := p.(Preparer[T]); ok {
			pp.Prepare(now, entries)
		}
	}
}

func (c composite[T]) ShouldRemove(now time.Time, e Entry[T]) (bool, error) {
	if len(c.policies) == 0 {
		return false, nil
	}

	for _, p := range c.policies {
		remove, err := p.ShouldRemove(now, e)
		if err != nil {
			return false, err
		}

		if remove == c.anyOf {
			return remove, nil
		}
	}

	return !c.anyOf, nil
}
