// Package config - параметры запуска сервера и симуляции.
package config

import "time"

// Config - корень YAML-файла.
type Config struct {
	// Seed - мастер-зерно. Уровень N строится из Seed + N.
	Seed    int64 `yaml:"seed"`
	ShardID uint8 `yaml:"shard_id"`

	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Map        MapConfig        `yaml:"map"`
	Simulation SimulationConfig `yaml:"simulation"`
	Debug      DebugConfig      `yaml:"debug"`
	Storage    StorageConfig    `yaml:"storage"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" | "json"
}

type MapConfig struct {
	Width           int `yaml:"width"`
	Height          int `yaml:"height"`
	MaxRooms        int `yaml:"max_rooms"`
	MonstersPerRoom int `yaml:"monsters_per_room"`
}

type SimulationConfig struct {
	// ParallelSystems разрешает параллельный запуск систем внутри стадии.
	ParallelSystems bool `yaml:"parallel_systems"`

	// DedupeTargets - применять эффект к сущности не более раза за разбор
	// (по умолчанию сущность в перекрывающихся целях получает эффект дважды).
	DedupeTargets bool `yaml:"dedupe_targets"`

	PlayerVision       int     `yaml:"player_vision"`
	ParticleLifespanMs float32 `yaml:"particle_lifespan_ms"`
}

type DebugConfig struct {
	// StrictAsserts превращает нарушения инвариантов в panic.
	StrictAsserts bool `yaml:"strict_asserts"`
}

type StorageConfig struct {
	SaveDir string `yaml:"save_dir"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default возвращает рабочую конфигурацию со случайным зерном.
func Default() *Config {
	return &Config{
		Seed:   time.Now().UnixNano(),
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info", Format: "text"},
		Map: MapConfig{
			Width:           80,
			Height:          43,
			MaxRooms:        30,
			MonstersPerRoom: 4,
		},
		Simulation: SimulationConfig{
			ParallelSystems:    true,
			PlayerVision:       8,
			ParticleLifespanMs: 200,
		},
		Storage: StorageConfig{SaveDir: "saves"},
		Metrics: MetricsConfig{Enabled: true},
	}
}
