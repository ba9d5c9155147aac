package scenario

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/drillsim/drillsim/internal/config"
	"github.com/drillsim/drillsim/internal/database"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	s := NewGorm(db, sqlDB.Close, testLogger())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGormStore_SeedsDefaults(t *testing.T) {
	s := newGormStore(t)
	require.NoError(t, s.Init())
	require.NoError(t, s.Init(), "second init does not reseed")

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, len(core.AllDisasterTypes))
	assert.Equal(t, "avalanche", list[0].Name)
	assert.Equal(t, 3, list[0].Goals)
}

func TestGormStore_RoundTrip(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	want := core.Scenario{
		Name:     "Harbour Tsunami",
		Disaster: core.Tsunami,
		Seed:     1234,
		Origin:   &core.GeoOrigin{Lon: 139.69, Lat: 35.68},
		Goals: []core.GoalSpec{
			{Position: core.Vec3{139.6901, 0, 35.6801}, Description: "Leave the pier"},
			{Position: core.Vec3{139.6905, 12, 35.6803}, Description: "Tower roof"},
		},
		Placements: []core.Placement{
			{Kind: core.PlacementObstacle, Type: "debris", Position: core.Vec3{139.6902, 0, 35.6801}, Damage: 1.5},
			{Kind: core.PlacementCollectible, Type: "radio", Position: core.Vec3{139.6903, 0, 35.6802}, Points: 20, HealthBonus: 5},
		},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Get(ctx, "harbour tsunami")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGormStore_SaveReplaces(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	first := core.Scenario{Name: "drill", Disaster: core.Fire, Goals: []core.GoalSpec{{Description: "a"}, {Description: "b"}}}
	require.NoError(t, s.Save(ctx, first))

	second := core.Scenario{Name: "Drill", Disaster: core.Coldwave, Goals: []core.GoalSpec{{Description: "c"}}}
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Get(ctx, "drill")
	require.NoError(t, err)
	assert.Equal(t, core.Coldwave, got.Disaster)
	require.Len(t, got.Goals, 1)
	assert.Equal(t, "c", got.Goals[0].Description)

	var goals int64
	require.NoError(t, s.db.Model(&GoalRecord{}).Count(&goals).Error)
	assert.Equal(t, int64(1), goals)
}

func TestGormStore_NotFoundAndInvalid(t *testing.T) {
	s := newGormStore(t)
	_, err := s.Get(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Save(context.Background(), core.Scenario{Name: "x", Disaster: core.Fire}), ErrInvalid)
}

func TestNewStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := NewStore(config.StorageConfig{Type: "sqlite", SQLite: config.SQLiteConfig{Path: path}}, config.DBConfig{}, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.Init())

	c := NewCatalog(store, testLogger())
	sc, err := c.ForDisaster(context.Background(), core.Landslide)
	require.NoError(t, err)
	assert.Equal(t, "landslide", sc.Name)
	assert.NoError(t, c.Close())
}
