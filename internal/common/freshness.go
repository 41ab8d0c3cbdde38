// Package common provides shared utilities for bdcwatch
package common

import "time"

// Freshness TTLs for data components
const (
	FreshnessWatchlist = 24 * time.Hour      // watchlist analysis reuse window
	FreshnessMetrics   = 24 * time.Hour      // per-BDC scalar metrics from quote provider
	FreshnessHoldings  = 30 * 24 * time.Hour // 30 days — holdings only change with new filings
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
