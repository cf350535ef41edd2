package idcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

const (
	// DefaultSweepInterval is a conventional delay between two sweeps, it is not applied implicitly.
	DefaultSweepInterval = 3 * time.Second

	// DefaultStopGracePeriod is a default time Stop waits for in-flight sweep.
	DefaultStopGracePeriod = 5 * time.Second
)

// KeeperState is a lifecycle stage of Keeper.
type KeeperState int

// Keeper states, transitions only go forward.
const (
	KeeperIdle KeeperState = iota
	KeeperRunning
	KeeperStopping
	KeeperStopped
)

func (s KeeperState) String() string {
	switch s {
	case KeeperIdle:
		return "idle"
	case KeeperRunning:
		return "running"
	case KeeperStopping:
		return "stopping"
	case KeeperStopped:
		return "stopped"
	default:
		return fmt.Sprintf("KeeperState(%d)", int(s))
	}
}

// KeeperConfig controls Keeper instance.
type KeeperConfig struct {
	// Name is added to logs and stats.
	Name string

	// Logger collects messages with context.
	Logger ctxd.Logger

	// Stats tracks stats.
	Stats stats.Tracker

	// Interval is delay between two consecutive sweeps, required.
	Interval time.Duration

	// StopGracePeriod is max time Stop waits for in-flight sweep, default 5s.
	StopGracePeriod time.Duration

	// SweeperConfig configures sweeper, Name, Logger and Stats are inherited if empty.
	SweeperConfig SweeperConfig
}

// Keeper periodically sweeps a store in background.
//
// Please use NewKeeper to create instance.
type Keeper[T Identifiable] struct {
	store   *Store[T]
	policy  RemovalPolicy[T]
	sweeper *Sweeper

	config KeeperConfig
	log    ctxd.Logger
	stat   stats.Tracker

	mu       sync.Mutex
	state    KeeperState
	stop     chan struct{}
	done     chan struct{}
	sweepNow chan sweepRequest
}

type sweepRequest struct {
	ctx    context.Context
	result chan sweepResult
}

type sweepResult struct {
	removed int
	err     error
}

// NewKeeper creates an idle Keeper, invalid configuration is rejected with ErrInvalidConfig.
func NewKeeper[T Identifiable](store *Store[T], policy RemovalPolicy[T], config KeeperConfig) (*Keeper[T], error) {
	switch {
	case store == nil:
		return nil, configError{err: ErrNilStore}
	case policy == nil:
		return nil, configError{err: ErrNilPolicy}
	case config.Interval <= 0:
		return nil, configError{err: fmt.Errorf("%w: %s", ErrInvalidInterval, config.Interval)}
	case config.StopGracePeriod < 0:
		return nil, configError{err: fmt.Errorf("%w: %s", ErrInvalidGracePeriod, config.StopGracePeriod)}
	}

	if config.StopGracePeriod == 0 {
		config.StopGracePeriod = DefaultStopGracePeriod
	}

	if config.Name == "" {
		config.Name = store.Name()
	}

	sc := config.SweeperConfig
	if sc.Name == "" {
		sc.Name = config.Name
	}

	if sc.Logger == nil {
		sc.Logger = config.Logger
	}

	if sc.Stats == nil {
		sc.Stats = config.Stats
	}

	k := &Keeper[T]{
		store:    store,
		policy:   policy,
		sweeper:  NewSweeper(sc),
		config:   config,
		log:      config.Logger,
		stat:     config.Stats,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		sweepNow: make(chan sweepRequest),
	}

	if k.log == nil {
		k.log = ctxd.NoOpLogger{}
	}

	if k.stat == nil {
		k.stat = stats.NoOp{}
	}

	return k, nil
}

// State returns current lifecycle stage.
func (k *Keeper[T]) State() KeeperState {
	k.mu.Lock()
	defer k.mu.Unlock()

	return k.state
}

// Start begins periodic sweeps in a background goroutine.
//
// Context values are available to logger and stats, context cancellation is ignored, use Stop.
func (k *Keeper[T]) Start(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.state != KeeperIdle {
		return fmt.Errorf("%w: %s", ErrKeeperStarted, k.state)
	}

	k.state = KeeperRunning

	go k.run(context.WithoutCancel(ctx))

	k.log.Debug(ctx, "keeper started", "name", k.config.Name, "interval", k.config.Interval.String())

	return nil
}

// SweepNow runs a sweep in keeper goroutine without waiting for the next tick.
func (k *Keeper[T]) SweepNow(ctx context.Context) (int, error) {
	if k.State() != KeeperRunning {
		return 0, ErrKeeperNotRunning
	}

	req := sweepRequest{ctx: ctx, result: make(chan sweepResult, 1)}

	select {
	case k.sweepNow <- req:
	case <-k.done:
		return 0, ErrKeeperNotRunning
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case res := <-req.result:
		return res.removed, res.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Stop prevents new sweeps and waits for in-flight sweep up to StopGracePeriod.
//
// ErrStopTimeout is returned if grace period is exceeded, the sweep is then left to finish on its own.
// Stop is safe to call multiple times.
func (k *Keeper[T]) Stop() error {
	k.mu.Lock()

	switch k.state {
	case KeeperIdle:
		k.state = KeeperStopped
		k.mu.Unlock()

		return nil
	case KeeperStopped:
		k.mu.Unlock()

		return nil
	case KeeperRunning:
		k.state = KeeperStopping
		close(k.stop)
	case KeeperStopping:
	}

	k.mu.Unlock()

	timer := time.NewTimer(k.config.StopGracePeriod)
	defer timer.Stop()

	select {
	case <-k.done:
		return nil
	case <-timer.C:
		ctx := context.Background()
		k.log.Warn(ctx, "keeper stop timed out, sweep still in flight",
			"name", k.config.Name,
			"grace", k.config.StopGracePeriod.String())

		return ctxd.WrapError(ctx, ErrStopTimeout, "stopping keeper",
			"name", k.config.Name,
			"grace", k.config.StopGracePeriod.String())
	}
}

func (k *Keeper[T]) run(ctx context.Context) {
	defer func() {
		k.mu.Lock()
		k.state = KeeperStopped
		k.mu.Unlock()

		close(k.done)

		k.log.Debug(ctx, "keeper stopped", "name", k.config.Name)
	}()

	ticker := time.NewTicker(k.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			if k.stopping() {
				return
			}

			k.tick(ctx)
		case req := <-k.sweepNow:
			if k.stopping() {
				req.result <- sweepResult{err: ErrKeeperNotRunning}

				return
			}

			req.result <- sweepResult{removed: k.tick(req.ctx)}
		}
	}
}

func (k *Keeper[T]) stopping() bool {
	select {
	case <-k.stop:
		return true
	default:
		return false
	}
}

// tick runs a single sweep, a failure is logged and does not end the schedule.
func (k *Keeper[T]) tick(ctx context.Context) (removed int) {
	defer func() {
		if r := recover(); r != nil {
			removed = 0

			k.stat.Add(ctx, MetricTickFailed, 1, "name", k.config.Name)
			k.log.Error(ctx, "sweep failed",
				"name", k.config.Name,
				"error", fmt.Sprintf("%v", r))
		}
	}()

	return Sweep(ctx, k.sweeper, k.store, k.policy)
}
