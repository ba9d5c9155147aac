package scenario

import (
	"context"
	"fmt"

	"github.com/drillsim/drillsim/internal/cache"
	"github.com/drillsim/drillsim/internal/config"
	"github.com/drillsim/drillsim/internal/database"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/rs/zerolog"
)

// NewStore creates a catalog backend based on configuration
func NewStore(cfg config.StorageConfig, db config.DBConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemory(cfg.Memory), nil
	case "sqlite", "postgres":
		m := database.NewManager(logger)
		if err := m.Connect(cfg, db); err != nil {
			return nil, err
		}
		if err := m.Setup(Models...); err != nil {
			m.Close()
			return nil, err
		}
		return NewGorm(m.DB, m.Close, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Catalog fronts a Store with the scenario cache. Scenarios it returns are
// validated and already projected to scene coordinates.
type Catalog struct {
	store  Store
	cache  *cache.ScenarioCache
	logger zerolog.Logger
}

// NewCatalog wraps an initialized store
func NewCatalog(store Store, logger zerolog.Logger) *Catalog {
	return &Catalog{
		store:  store,
		cache:  cache.NewScenarioCache(),
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Get loads a scenario by name
func (c *Catalog) Get(ctx context.Context, name string) (core.Scenario, error) {
	if sc, ok := c.cache.Get(name); ok {
		return sc, nil
	}
	sc, err := c.store.Get(ctx, name)
	if err != nil {
		return core.Scenario{}, err
	}
	if err := Validate(sc); err != nil {
		return core.Scenario{}, err
	}
	sc = Project(sc)
	c.cache.Set(sc)
	c.logger.Debug().Str("scenario", sc.Name).Int("goals", len(sc.Goals)).Msg("Scenario loaded")
	return sc, nil
}

// ForDisaster loads the scenario named after d
func (c *Catalog) ForDisaster(ctx context.Context, d core.DisasterType) (core.Scenario, error) {
	return c.Get(ctx, string(d))
}

// List passes through to the store
func (c *Catalog) List(ctx context.Context) ([]Summary, error) {
	return c.store.List(ctx)
}

// Save writes through to the store and drops the cached copy
func (c *Catalog) Save(ctx context.Context, sc core.Scenario) error {
	if err := c.store.Save(ctx, sc); err != nil {
		return err
	}
	c.cache.Delete(sc.Name)
	return nil
}

// Stats returns cache hits and misses
func (c *Catalog) Stats() (hits, misses int) {
	return c.cache.Hits.Value(), c.cache.Misses.Value()
}

// Close closes the store
func (c *Catalog) Close() error {
	c.cache.Reset()
	return c.store.Close()
}
