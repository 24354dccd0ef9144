package tracker

import "github.com/genricoloni/spotink/internal/config"

// RefreshCounter counts renders since the last full panel clean
type RefreshCounter struct {
	threshold int
	count     int
}

// NewRefreshCounter creates a counter using display_refresh_counter as threshold
func NewRefreshCounter(cfg *config.Config) *RefreshCounter {
	return &RefreshCounter{threshold: cfg.Layout.RefreshThreshold}
}

// Tick registers a render and reports whether a clean is due before it.
// The counter is reset when it reports true.
func (c *RefreshCounter) Tick() bool {
	c.count++
	if c.count > c.threshold {
		c.count = 0
		return true
	}
	return false
}

// Count returns the renders since the last clean
func (c *RefreshCounter) Count() int {
	return c.count
}
