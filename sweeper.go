package idcache

import (
	"context"
	"fmt"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/hashicorp/go-multierror"
	gocache "github.com/patrickmn/go-cache"
)

// SweeperConfig is optional configuration for NewSweeper.
type SweeperConfig struct {
	// Name is added to logs and stats, store name is used if empty.
	Name string

	// Logger collects messages with context.
	Logger ctxd.Logger

	// Stats tracks stats.
	Stats stats.Tracker

	// FailureLogTTL is a time to suppress repeated failure logs of the same identity, default 1 minute.
	FailureLogTTL time.Duration

	// OnPolicyError is called for every failed policy evaluation after the sweep released store lock.
	OnPolicyError func(ctx context.Context, err *PolicyError)
}

// Sweeper removes stale entries from a store.
//
// Please use NewSweeper to create instance.
type Sweeper struct {
	// failures caches identities with recently logged policy failures.
	failures *gocache.Cache

	config SweeperConfig
	log    ctxd.Logger
	stat   stats.Tracker
}

// NewSweeper creates a Sweeper instance with optional configuration.
func NewSweeper(cfg ...SweeperConfig) *Sweeper {
	config := SweeperConfig{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	if config.FailureLogTTL == 0 {
		config.FailureLogTTL = time.Minute
	}

	sw := &Sweeper{
		// No janitor, expired records are deleted after every sweep.
		failures: gocache.New(config.FailureLogTTL, 0),
		config:   config,
		log:      config.Logger,
		stat:     config.Stats,
	}

	if sw.log == nil {
		sw.log = ctxd.NoOpLogger{}
	}

	if sw.stat == nil {
		sw.stat = stats.NoOp{}
	}

	return sw
}

// Sweep removes every entry flagged by policy and returns the number of removed entries.
//
// The whole pass holds exclusive store lock. Nil policy makes a no-op.
// Failed evaluations keep their entries and are reported with logs, stats and
// SweeperConfig.OnPolicyError. Failed Preparer.Prepare aborts the pass with no
// removals, it is reported as PolicyError with empty ID.
// Nil sweeper is replaced with a default one.
func Sweep[T Identifiable](ctx context.Context, sw *Sweeper, store *Store[T], policy RemovalPolicy[T]) int {
	if store == nil || policy == nil {
		return 0
	}

	if sw == nil {
		sw = NewSweeper()
	}

	name := sw.config.Name
	if name == "" {
		name = store.config.Name
	}

	var (
		stale    []string
		failures []*PolicyError
		count    int
		start    = time.Now()
	)

	store.exclusive(func(data map[string]*Entry[T], now time.Time) {
		ids := make([]string, 0, len(data))
		for id := range data {
			ids = append(ids, id)
		}

		if p, ok := policy.(Preparer[T]); ok {
			entries := make([]Entry[T], 0, len(ids))
			for _, id := range ids {
				entries = append(entries, *data[id])
			}

			if err := prepare(p, now, entries); err != nil {
				failures = append(failures, &PolicyError{Err: err})
				count = len(data)

				return
			}
		}

		for _, id := range ids {
			remove, err := evaluate(policy, now, *data[id])
			if err != nil {
				failures = append(failures, &PolicyError{ID: id, Err: err})

				continue
			}

			if remove {
				stale = append(stale, id)
			}
		}

		for _, id := range stale {
			delete(data, id)
		}

		count = len(data)
	})

	sw.stat.Add(ctx, MetricSweep, 1, "name", name)
	sw.stat.Add(ctx, MetricRemoved, float64(len(stale)), "name", name)
	sw.stat.Set(ctx, MetricItems, float64(count), "name", name)

	if len(stale) > 0 {
		sw.log.Debug(ctx, "removed stale entries",
			"name", name,
			"items", stale,
			"count", count,
		)
	}

	sw.reportFailures(ctx, name, failures)
	sw.failures.DeleteExpired()

	sw.log.Debug(ctx, "sweep finished",
		"name", name,
		"removed", len(stale),
		"elapsed", time.Since(start).String(),
	)

	return len(stale)
}

func (sw *Sweeper) reportFailures(ctx context.Context, name string, failures []*PolicyError) {
	if len(failures) == 0 {
		return
	}

	sw.stat.Add(ctx, MetricPolicyFailed, float64(len(failures)), "name", name)

	var merr *multierror.Error

	for _, f := range failures {
		sw.notify(ctx, name, f)

		key := name + "/" + f.ID
		if _, found := sw.failures.Get(key); found {
			continue
		}

		sw.failures.SetDefault(key, f.Err)
		merr = multierror.Append(merr, f)
	}

	if err := merr.ErrorOrNil(); err != nil {
		sw.log.Error(ctx, "removal policy failed, entries kept",
			"name", name,
			"failed", len(failures),
			"error", err,
		)
	}
}

// notify calls OnPolicyError, a panic in callback is logged and does not affect the sweep.
func (sw *Sweeper) notify(ctx context.Context, name string, f *PolicyError) {
	if sw.config.OnPolicyError == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			sw.log.Error(ctx, "policy error callback failed",
				"name", name,
				"id", f.ID,
				"error", fmt.Sprintf("%v", r),
			)
		}
	}()

	sw.config.OnPolicyError(ctx, f)
}

func prepare[T Identifiable](p Preparer[T], now time.Time, entries []Entry[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prepare panic: %v", r)
		}
	}()

	p.Prepare(now, entries)

	return nil
}

func evaluate[T Identifiable](policy RemovalPolicy[T], now time.Time, e Entry[T]) (remove bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			remove = false
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	remove, err = policy.ShouldRemove(now, e)
	if err != nil {
		return false, err
	}

	return remove, nil
}
