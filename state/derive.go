// Derived weekly split with a small cache keyed by week and state revision
package state

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/finmate/finmate/budget"
)

// splitCache memoizes computed weekly splits. Any state mutation bumps the
// revision, so stale entries are never served; they just age out.
type splitCache struct {
	cache *ristretto.Cache
}

func newSplitCache() *splitCache {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 10,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// Static config; only reachable if the config constants are broken.
		panic(err)
	}
	return &splitCache{cache: cache}
}

func (c *splitCache) get(key string) (budget.Split, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return budget.Split{}, false
	}
	split, ok := v.(budget.Split)
	return split, ok
}

func (c *splitCache) set(key string, split budget.Split) {
	c.cache.Set(key, split, 1)
}

// WeeklySplit computes the 50/30/20 split for the week containing now,
// serving a cached copy when neither the week nor the state has changed.
func (s *Store) WeeklySplit(now time.Time) budget.Split {
	s.mu.RLock()
	key := fmt.Sprintf("%s:%d", budget.WeekKey(now), s.snap.Revision)
	if split, ok := s.cache.get(key); ok {
		s.mu.RUnlock()
		return split
	}

	profile := s.snap.Profile
	weekTxs := budget.WeekTransactions(s.snap.Transactions, now)
	categoryMap := s.snap.CategoryMap
	totals := s.snap.CategoryTotals
	contributions := budget.GoalContributions(s.snap.Goals)
	s.mu.RUnlock()

	split := budget.ComputeWeeklySplit(profile, weekTxs, categoryMap, totals, contributions)
	s.cache.set(key, split)
	return split
}
