package idcache

// Metric names, all metrics are labelled with "name".
const (
	MetricWrite        = "idcache_write"
	MetricRefreshed    = "idcache_refreshed"
	MetricChanged      = "idcache_changed"
	MetricRemove       = "idcache_remove"
	MetricClear        = "idcache_clear"
	MetricItems        = "idcache_items"
	MetricSweep        = "idcache_sweep"
	MetricRemoved      = "idcache_removed"
	MetricPolicyFailed = "idcache_policy_failed"
	MetricTickFailed   = "idcache_tick_failed"
)
