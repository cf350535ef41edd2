// Package idcache provides an in-memory cache of self-identifying values with background expiry.
//
// Features:
//
//   - Values are keyed by their own identity, no separate key bookkeeping.
//   - Single store lock, reads run concurrently, mutations and sweeps are exclusive.
//   - Pluggable removal policy (ttl, capacity, composition, custom functions).
//   - Background keeper with explicit start, on-demand sweep and bounded graceful stop.
//   - Failing policy evaluations are isolated per entry and reported out of band.
//   - Allows logging, stats collection.
//   - Allows mass removal across stores (Invalidator).
package idcache
