package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./drilllogs", viper.GetString("logsDir"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, 60, viper.GetInt("engine.tickRate"))
	assert.Equal(t, 0.1, viper.GetFloat64("engine.maxFrameDelta"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./drillsim.db", viper.GetString("storage.sqlite.path"))
	assert.Equal(t, "drillsim", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "./drilllogs/telemetry.lp.gz", viper.GetString("influx.backupPath"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "drillsim", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// defaults are still usable
	assert.Equal(t, "memory", GetStorageConfig().Type)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetEngineConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg, err := GetEngineConfig()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 0.1, cfg.MaxFrameDelta)
	assert.Equal(t, 50.0, cfg.WorldHalfExtent)
	assert.Equal(t, 10.0, cfg.Player.MoveSpeed)
	assert.Equal(t, 20.0, cfg.Player.Gravity)
	assert.Equal(t, 8.0, cfg.Camera.Distance)
	assert.Equal(t, 0.005, cfg.Camera.Sensitivity)
	assert.Equal(t, 2.5, cfg.Collision.GoalRadius)
	assert.Equal(t, 100, cfg.Collision.GoalBonus)
}

func TestGetEngineConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"engine": { "tickRate": 120, "seed": 99 },
		"player": { "moveSpeed": 7.5 },
		"camera": { "maxPitch": 0.9 },
		"collision": { "goalBonus": 250 }
	}`)))

	cfg, err := GetEngineConfig()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 7.5, cfg.Player.MoveSpeed)
	assert.Equal(t, 8.0, cfg.Player.JumpImpulse)
	assert.Equal(t, 0.9, cfg.Camera.MaxPitch)
	assert.Equal(t, 250, cfg.Collision.GoalBonus)
	assert.Equal(t, time.Second/120, cfg.FrameInterval())
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "scenarioDir": "/tmp/scenarios" },
			"sqlite": { "path": "/tmp/catalog.db" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/scenarios", sc.Memory.ScenarioDir)
	assert.Equal(t, "/tmp/catalog.db", sc.SQLite.Path)
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{ "influx": { "enabled": true, "host": "metrics", "protocol": "https" } }`)))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "https://metrics:8086", ic.URL())
	assert.Equal(t, "drillsim", ic.Org)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": { "enabled": true, "serviceName": "drill-ci", "exportInterval": "30s", "outputPath": "/tmp/metrics.json" }
	}`)))

	oc := GetOTelConfig()
	assert.True(t, oc.Enabled)
	assert.Equal(t, "drill-ci", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.ExportInterval)
	assert.Equal(t, "/tmp/metrics.json", oc.OutputPath)
}

func TestGetEngineConfig_ExplicitKeys(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))
	viper.Set("engine.seed", 5)

	cfg, err := GetEngineConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(5), cfg.Seed)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 10, GetInt("telemetry.sampleEvery"))
}
