package scenario

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/drillsim/drillsim/internal/cache"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// GormStore keeps the catalog in a SQLite or Postgres database
type GormStore struct {
	db     *gorm.DB
	closer func() error
	logger zerolog.Logger
}

// NewGorm creates a store over an open, migrated database. closer, if not
// nil, is called by Close.
func NewGorm(db *gorm.DB, closer func() error, logger zerolog.Logger) *GormStore {
	return &GormStore{
		db:     db,
		closer: closer,
		logger: logger.With().Str("component", "scenario.gorm").Logger(),
	}
}

// Init seeds the built-in defaults into an empty catalog
func (s *GormStore) Init() error {
	var count int64
	if err := s.db.Model(&ScenarioRecord{}).Count(&count).Error; err != nil {
		return fmt.Errorf("error counting scenarios: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, sc := range Defaults() {
		if err := s.Save(context.Background(), sc); err != nil {
			return fmt.Errorf("error seeding %s: %w", sc.Name, err)
		}
	}
	s.logger.Info().Int("scenarios", len(core.AllDisasterTypes)).Msg("Seeded default scenarios")
	return nil
}

// Close releases the database
func (s *GormStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *GormStore) load(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Goals", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Placements", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

// List returns a summary of every scenario sorted by name
func (s *GormStore) List(ctx context.Context) ([]Summary, error) {
	var recs []ScenarioRecord
	if err := s.load(s.db.WithContext(ctx)).Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("error listing scenarios: %w", err)
	}
	out := make([]Summary, 0, len(recs))
	for _, rec := range recs {
		sc, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("error decoding scenario %q: %w", rec.Name, err)
		}
		out = append(out, Summarize(sc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns the scenario with the given name, case-insensitively
func (s *GormStore) Get(ctx context.Context, name string) (core.Scenario, error) {
	var rec ScenarioRecord
	err := s.load(s.db.WithContext(ctx)).Where("lower(name) = ?", cache.Key(name)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Scenario{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return core.Scenario{}, fmt.Errorf("error loading scenario: %w", err)
	}
	return FromRecord(rec)
}

// Save inserts sc or replaces the scenario with the same name
func (s *GormStore) Save(ctx context.Context, sc core.Scenario) error {
	if err := Validate(sc); err != nil {
		return err
	}
	rec, err := ToRecord(sc)
	if err != nil {
		return fmt.Errorf("error encoding scenario: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ScenarioRecord
		err := tx.Where("lower(name) = ?", cache.Key(sc.Name)).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			if err := tx.Where("scenario_id = ?", existing.ID).Delete(&GoalRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Where("scenario_id = ?", existing.ID).Delete(&PlacementRecord{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		}
		return tx.Create(&rec).Error
	})
}
