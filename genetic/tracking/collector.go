package tracking

import "sync"

// Collector keeps per-generation Stats for a run. Safe for concurrent use.
type Collector struct {
	mu       sync.RWMutex
	capacity int
	history  []Stats

	higherIsBetter bool
	bestEver       float64
	bestSet        bool
	lastImproved   int
}

// NewCollector creates a collector retaining at most capacity entries (0 = all)
func NewCollector(capacity int, higherIsBetter bool) *Collector {
	return &Collector{
		capacity:       capacity,
		higherIsBetter: higherIsBetter,
	}
}

// Collect appends s, evicting the oldest entry when full
func (c *Collector) Collect(s Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity > 0 && len(c.history) == c.capacity {
		copy(c.history, c.history[1:])
		c.history = c.history[:len(c.history)-1]
	}
	c.history = append(c.history, s)

	improved := !c.bestSet ||
		(c.higherIsBetter && s.Best > c.bestEver) ||
		(!c.higherIsBetter && s.Best < c.bestEver)
	if improved {
		c.bestEver = s.Best
		c.bestSet = true
		c.lastImproved = s.Generation
	}
}

// History returns a copy of the retained entries, oldest first
func (c *Collector) History() []Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Stats, len(c.history))
	copy(out, c.history)
	return out
}

// Last returns the most recent entry
func (c *Collector) Last() (Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.history) == 0 {
		return Stats{}, false
	}
	return c.history[len(c.history)-1], true
}

// Stagnation is the number of generations since the generation best last improved
func (c *Collector) Stagnation() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.history) == 0 {
		return 0
	}
	return c.history[len(c.history)-1].Generation - c.lastImproved
}

// Reset clears all entries
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = c.history[:0]
	c.bestSet = false
	c.bestEver = 0
	c.lastImproved = 0
}
