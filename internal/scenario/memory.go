package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/drillsim/drillsim/internal/cache"
	"github.com/drillsim/drillsim/internal/config"
	"github.com/drillsim/drillsim/pkg/core"
)

// MemoryStore holds scenarios in memory, seeded from the built-in defaults
// and optionally a directory of JSON files.
type MemoryStore struct {
	cfg       config.MemoryConfig
	scenarios map[string]core.Scenario
	mu        sync.RWMutex
}

// NewMemory creates a new memory store
func NewMemory(cfg config.MemoryConfig) *MemoryStore {
	return &MemoryStore{
		cfg:       cfg,
		scenarios: make(map[string]core.Scenario),
	}
}

// Init loads the defaults, then every *.json file in the scenario directory.
// Files override defaults with the same name.
func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sc := range Defaults() {
		s.scenarios[cache.Key(sc.Name)] = sc
	}
	if s.cfg.ScenarioDir == "" {
		return nil
	}

	entries, err := os.ReadDir(s.cfg.ScenarioDir)
	if err != nil {
		return fmt.Errorf("error reading scenario dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		sc, err := readScenarioFile(filepath.Join(s.cfg.ScenarioDir, e.Name()))
		if err != nil {
			return err
		}
		s.scenarios[cache.Key(sc.Name)] = sc
	}
	return nil
}

func readScenarioFile(path string) (core.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Scenario{}, fmt.Errorf("error reading scenario file: %w", err)
	}
	var sc core.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return core.Scenario{}, fmt.Errorf("error parsing %s: %w", filepath.Base(path), err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if err := Validate(sc); err != nil {
		return core.Scenario{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sc, nil
}

// Close cleans up resources
func (s *MemoryStore) Close() error {
	return nil
}

// List returns a summary of every scenario sorted by name
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		out = append(out, Summarize(sc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the scenario with the given name
func (s *MemoryStore) Get(ctx context.Context, name string) (core.Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.scenarios[cache.Key(name)]
	if !ok {
		return core.Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return sc, nil
}

// Save stores sc, writing it to the scenario directory when one is configured
func (s *MemoryStore) Save(ctx context.Context, sc core.Scenario) error {
	if err := Validate(sc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[cache.Key(sc.Name)] = sc

	if s.cfg.ScenarioDir == "" {
		return nil
	}
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding scenario: %w", err)
	}
	path := filepath.Join(s.cfg.ScenarioDir, cache.Key(sc.Name)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing scenario file: %w", err)
	}
	return nil
}
