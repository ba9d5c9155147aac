package main

import (
	"context"
	"testing"

	"github.com/drillsim/drillsim/internal/config"
	"github.com/drillsim/drillsim/internal/scenario"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Cleanup(viper.Reset)
	config.SetDefaults()

	opts, err := parseFlags([]string{"-m", "list", "--seed", "7", "-s", "Campus"})
	require.NoError(t, err)
	assert.Equal(t, "list", opts.mode)
	assert.Equal(t, "Campus", opts.scenario)
	assert.Equal(t, int64(7), viper.GetInt64("engine.seed"))
	// unset flags leave config values alone
	assert.Equal(t, 60, viper.GetInt("engine.tickRate"))
}

func TestParseFlags_Unknown(t *testing.T) {
	t.Cleanup(viper.Reset)
	_, err := parseFlags([]string{"--nope"})
	assert.Error(t, err)
}

func testCatalog(t *testing.T) *scenario.Catalog {
	t.Helper()
	store := scenario.NewMemory(config.MemoryConfig{})
	require.NoError(t, store.Init())
	return scenario.NewCatalog(store, zerolog.Nop())
}

func TestResolveScenario_ByDisaster(t *testing.T) {
	sc, err := resolveScenario(context.Background(), testCatalog(t), options{disaster: "flood"})
	require.NoError(t, err)
	assert.Equal(t, core.Flood, sc.Disaster)
	assert.NotEmpty(t, sc.Goals)
}

func TestResolveScenario_CustomRoute(t *testing.T) {
	sc, err := resolveScenario(context.Background(), testCatalog(t), options{
		disaster: "fire",
		goals:    "[[0,-10],[5,2,-20]]",
	})
	require.NoError(t, err)
	require.Len(t, sc.Goals, 2)
	assert.Equal(t, core.Vec3{0, 0, -10}, sc.Goals[0].Position)
	assert.Equal(t, core.Vec3{5, 2, -20}, sc.Goals[1].Position)
	assert.Equal(t, "Checkpoint 2", sc.Goals[1].Description)
}

func TestResolveScenario_Errors(t *testing.T) {
	c := testCatalog(t)
	_, err := resolveScenario(context.Background(), c, options{disaster: "volcano"})
	assert.Error(t, err)

	_, err = resolveScenario(context.Background(), c, options{scenario: "missing"})
	assert.ErrorIs(t, err, scenario.ErrNotFound)

	_, err = resolveScenario(context.Background(), c, options{disaster: "fire", goals: "[[1]]"})
	assert.Error(t, err)
}
