package scenario

import (
	"github.com/drillsim/drillsim/internal/config"
	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func configMemory(dir string) config.MemoryConfig {
	return config.MemoryConfig{ScenarioDir: dir}
}

func configStorage(kind string) config.StorageConfig {
	return config.StorageConfig{Type: kind}
}

func configDB() config.DBConfig {
	return config.DBConfig{}
}
