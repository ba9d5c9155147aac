package config

import (
	"fmt"
	"time"

	"github.com/drillsim/drillsim/internal/sim"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory
const FileName = "drillsim.cfg.json"

// MemoryConfig holds built-in/JSON scenario catalog settings
type MemoryConfig struct {
	ScenarioDir string `json:"scenarioDir" mapstructure:"scenarioDir"`
}

// SQLiteConfig holds sqlite scenario catalog settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects the scenario catalog backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// DBConfig holds postgres connection settings
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// InfluxConfig holds telemetry sink settings
type InfluxConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Protocol   string
	Token      string
	Org        string
	BackupPath string
}

// URL returns the server URL
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// OTelConfig holds metrics provider settings
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	ExportInterval time.Duration
	OutputPath     string
}

// MonitorConfig holds telemetry pipeline status settings
type MonitorConfig struct {
	Enabled    bool
	Interval   time.Duration
	StatusFile string
}

// SetDefaults registers a default for every key
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./drilllogs")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("engine.tickRate", 60)
	viper.SetDefault("engine.maxFrameDelta", 0.1)
	viper.SetDefault("engine.worldHalfExtent", 50.0)
	viper.SetDefault("engine.seed", 0)

	viper.SetDefault("player.moveSpeed", 10.0)
	viper.SetDefault("player.jumpImpulse", 8.0)
	viper.SetDefault("player.gravity", 20.0)
	viper.SetDefault("player.swimUpSpeed", 3.0)
	viper.SetDefault("player.climbSpeed", 3.0)
	viper.SetDefault("player.buoyancy", 4.0)
	viper.SetDefault("player.ladderRadius", 1.5)

	viper.SetDefault("camera.distance", 8.0)
	viper.SetDefault("camera.height", 2.0)
	viper.SetDefault("camera.sensitivity", 0.005)
	viper.SetDefault("camera.minPitch", -0.2)
	viper.SetDefault("camera.maxPitch", 1.2)
	viper.SetDefault("camera.lookHeight", 1.5)

	viper.SetDefault("collision.goalRadius", 2.5)
	viper.SetDefault("collision.collectibleRadius", 1.5)
	viper.SetDefault("collision.hazardRadius", 1.5)
	viper.SetDefault("collision.goalBonus", 100)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.scenarioDir", "")
	viper.SetDefault("storage.sqlite.path", "./drillsim.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "drillsim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "drillsim")
	viper.SetDefault("influx.backupPath", "./drilllogs/telemetry.lp.gz")

	viper.SetDefault("telemetry.sampleEvery", 10)
	viper.SetDefault("telemetry.batchSize", 64)

	viper.SetDefault("monitor.enabled", false)
	viper.SetDefault("monitor.interval", "5s")
	viper.SetDefault("monitor.statusFile", "./drilllogs/status.json")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "drillsim")
	viper.SetDefault("otel.exportInterval", "10s")
	viper.SetDefault("otel.outputPath", "")
}

// Load sets defaults and reads the JSON config file from configDir
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetEngineConfig assembles the simulation config from the engine,
// player, camera and collision sections
func GetEngineConfig() (sim.Config, error) {
	cfg := sim.DefaultConfig()
	sections := []struct {
		key string
		out any
	}{
		{"engine", &cfg},
		{"player", &cfg.Player},
		{"camera", &cfg.Camera},
		{"collision", &cfg.Collision},
	}
	for _, s := range sections {
		if err := viper.UnmarshalKey(s.key, s.out); err != nil {
			return sim.Config{}, fmt.Errorf("error decoding %s config: %w", s.key, err)
		}
	}
	// section decoding does not see values bound from CLI flags
	cfg.TickRate = viper.GetInt("engine.tickRate")
	cfg.Seed = viper.GetInt64("engine.seed")
	return cfg, nil
}

// GetStorageConfig returns the scenario catalog settings
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			ScenarioDir: viper.GetString("storage.memory.scenarioDir"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetDBConfig returns the postgres connection settings
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetInfluxConfig returns the telemetry sink settings
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetOTelConfig returns the metrics provider settings
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
		OutputPath:     viper.GetString("otel.outputPath"),
	}
}

// GetMonitorConfig returns the pipeline status monitor settings
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:    viper.GetBool("monitor.enabled"),
		Interval:   viper.GetDuration("monitor.interval"),
		StatusFile: viper.GetString("monitor.statusFile"),
	}
}
