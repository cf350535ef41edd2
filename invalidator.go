package idcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bool64/ctxd"
)

// Clearer drops all entries, *Store implements it.
type Clearer interface {
	Clear()
}

// Invalidator drops several stores at once.
type Invalidator struct {
	sync.Mutex

	// SkipInterval defines minimal duration between two invalidations (flood protection), default 15s.
	SkipInterval time.Duration

	// Logger collects messages with context, can be nil.
	Logger ctxd.Logger

	targets []Clearer
	lastRun time.Time
}

// Add registers stores to clear on invalidation.
func (i *Invalidator) Add(targets ...Clearer) {
	i.Lock()
	defer i.Unlock()

	i.targets = append(i.targets, targets...)
}

// Invalidate clears all registered stores.
func (i *Invalidator) Invalidate(ctx context.Context) error {
	i.Lock()
	defer i.Unlock()

	if len(i.targets) == 0 {
		return ErrNothingToInvalidate
	}

	if i.SkipInterval == 0 {
		i.SkipInterval = 15 * time.Second
	}

	if time.Since(i.lastRun) < i.SkipInterval {
		return fmt.Errorf("%w at %s, %s did not pass",
			ErrAlreadyInvalidated, i.lastRun.String(), i.SkipInterval.String())
	}

	i.lastRun = time.Now()
	for _, t := range i.targets {
		t.Clear()
	}

	if i.Logger != nil {
		i.Logger.Info(ctx, "stores invalidated", "count", len(i.targets))
	}

	return nil
}
