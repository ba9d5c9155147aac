// Package cache keeps loaded scenarios in memory so repeated sessions do
// not go back to the catalog backend.
package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/drillsim/drillsim/pkg/core"
)

// ScenarioCache maps normalized scenario names to scenarios
type ScenarioCache struct {
	mu        sync.RWMutex
	scenarios map[string]core.Scenario

	Hits   SafeCounter
	Misses SafeCounter
}

// NewScenarioCache creates an empty cache
func NewScenarioCache() *ScenarioCache {
	return &ScenarioCache{
		scenarios: make(map[string]core.Scenario),
	}
}

// Key normalizes a scenario name for lookups
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Get returns a copy of the cached scenario
func (c *ScenarioCache) Get(name string) (core.Scenario, bool) {
	c.mu.RLock()
	sc, ok := c.scenarios[Key(name)]
	c.mu.RUnlock()
	if !ok {
		c.Misses.Inc()
		return core.Scenario{}, false
	}
	c.Hits.Inc()
	return clone(sc), true
}

// Set stores a copy of sc under its name
func (c *ScenarioCache) Set(sc core.Scenario) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenarios[Key(sc.Name)] = clone(sc)
}

// Delete removes a scenario by name
func (c *ScenarioCache) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scenarios, Key(name))
}

// Names returns the cached keys in sorted order
func (c *ScenarioCache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.scenarios))
	for k := range c.scenarios {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Reset clears all scenarios from the cache
func (c *ScenarioCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenarios = make(map[string]core.Scenario)
}

// clone copies the slices so callers cannot mutate cached entries
func clone(sc core.Scenario) core.Scenario {
	out := sc
	out.Goals = append([]core.GoalSpec(nil), sc.Goals...)
	out.Placements = append([]core.Placement(nil), sc.Placements...)
	if sc.Origin != nil {
		o := *sc.Origin
		out.Origin = &o
	}
	return out
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
