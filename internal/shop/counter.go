package shop

import (
	"sync"
	"time"
)

const dayFormat = "2006-01-02"

// dayCount tracks how many orders a customer placed on a given local
// calendar day. It is derived state: Rebuild reconstructs it from the order
// log, PlaceOrder maintains it incrementally.
type dayCount struct {
	count int
	day   string
}

// customerCounters is the per-customer daily order counter. Keys are exact,
// case-sensitive trimmed customer names: a shared name is one customer for
// rate-limiting purposes.
type customerCounters struct {
	mu       sync.Mutex
	counters map[string]dayCount
	limit    int
}

func newCustomerCounters(limit int) *customerCounters {
	return &customerCounters{
		counters: make(map[string]dayCount),
		limit:    limit,
	}
}

// limitReached reports whether name already placed the daily maximum on the
// calendar day of now. A counter from an earlier day does not count.
func (cc *customerCounters) limitReached(name string, now time.Time) bool {
	today := now.Format(dayFormat)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	c, ok := cc.counters[name]
	return ok && c.day == today && c.count >= cc.limit
}

// record bumps the counter for name, resetting it when the calendar day has
// rolled over since the last order.
func (cc *customerCounters) record(name string, now time.Time) {
	today := now.Format(dayFormat)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	c := cc.counters[name]
	if c.day == today {
		c.count++
	} else {
		c = dayCount{count: 1, day: today}
	}
	cc.counters[name] = c
}

// replace swaps in a freshly rebuilt counter set.
func (cc *customerCounters) replace(counters map[string]dayCount) {
	cc.mu.Lock()
	cc.counters = counters
	cc.mu.Unlock()
}

// purgeStale drops entries whose day is not the current calendar day. They
// carry no limit weight anymore and would otherwise accumulate forever.
func (cc *customerCounters) purgeStale(now time.Time) int {
	today := now.Format(dayFormat)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	removed := 0
	for name, c := range cc.counters {
		if c.day != today {
			delete(cc.counters, name)
			removed++
		}
	}
	return removed
}
