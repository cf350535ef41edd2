package idcache

import "fmt"

// SentinelError is an error.
type SentinelError string

const (
	// ErrAlreadyExists indicates an entry with the same identity is already stored.
	ErrAlreadyExists = SentinelError("already exists")

	// ErrInvalidConfig indicates a rejected keeper configuration.
	ErrInvalidConfig = SentinelError("invalid configuration")

	// ErrNilStore indicates missing store.
	ErrNilStore = SentinelError("nil store")

	// ErrNilPolicy indicates missing removal policy.
	ErrNilPolicy = SentinelError("nil removal policy")

	// ErrInvalidInterval indicates non-positive sweep interval.
	ErrInvalidInterval = SentinelError("sweep interval must be positive")

	// ErrInvalidGracePeriod indicates negative stop grace period.
	ErrInvalidGracePeriod = SentinelError("stop grace period must not be negative")

	// ErrKeeperStarted indicates keeper was already started.
	ErrKeeperStarted = SentinelError("keeper already started")

	// ErrKeeperNotRunning indicates keeper is not in running state.
	ErrKeeperNotRunning = SentinelError("keeper is not running")

	// ErrStopTimeout indicates in-flight sweep did not finish within grace period.
	ErrStopTimeout = SentinelError("keeper stop timed out")

	// ErrNothingToInvalidate indicates no stores were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}

// AlreadyExistsError is returned by Store.Add for a duplicate identity.
type AlreadyExistsError struct {
	ID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: %q", ErrAlreadyExists, e.ID)
}

// Is matches ErrAlreadyExists.
func (e *AlreadyExistsError) Is(err error) bool {
	return err == ErrAlreadyExists
}

// configError marks configuration errors so that they all match ErrInvalidConfig.
type configError struct {
	err error
}

func (e configError) Error() string {
	return ErrInvalidConfig.Error() + ": " + e.err.Error()
}

func (e configError) Unwrap() error {
	return e.err
}

func (e configError) Is(err error) bool {
	return err == ErrInvalidConfig
}

// PolicyError describes a failed removal policy evaluation of a single entry.
//
// The entry is kept in store, sweep continues with the rest.
type PolicyError struct {
	ID  string
	Err error
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("removal policy failed for %q: %v", e.ID, e.Err)
}

// Unwrap returns the underlying failure.
func (e *PolicyError) Unwrap() error {
	return e.Err
}
