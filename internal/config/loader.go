package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid оборачивает все ошибки валидации.
var ErrInvalid = errors.New("config: invalid")

// Load читает YAML-файл поверх Default, применяет переменные окружения
// и валидирует результат.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader декодирует YAML из r. Неизвестные ключи - ошибка.
// Пустой ввод даёт Default.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv переопределяет поля из окружения: CD_PORT, CD_SEED, LOG_LEVEL, LOG_FORMAT.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("CD_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: CD_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := os.LookupEnv("CD_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: CD_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		cfg.Log.Format = v
	}
	return nil
}

var validLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}

// Validate проверяет согласованность значений и возвращает все найденные
// ошибки одной цепочкой (errors.Join), обёрнутой в ErrInvalid.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range [0, 65535]", cfg.Server.Port))
	}

	if cfg.Log.Level != "" && !contains(validLevels, strings.ToLower(cfg.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level %q is invalid; valid values: %s", cfg.Log.Level, strings.Join(validLevels, ", ")))
	}
	if f := strings.ToLower(cfg.Log.Format); f != "" && f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format %q is invalid; valid values: text, json", cfg.Log.Format))
	}

	// Карта: комнаты минимум 3x3 плюс стены.
	if cfg.Map.Width < 10 || cfg.Map.Height < 10 {
		errs = append(errs, fmt.Errorf("map %dx%d is too small; minimum is 10x10", cfg.Map.Width, cfg.Map.Height))
	}
	if cfg.Map.MaxRooms < 1 {
		errs = append(errs, fmt.Errorf("map.max_rooms must be positive, got %d", cfg.Map.MaxRooms))
	}
	if cfg.Map.MonstersPerRoom < 0 {
		errs = append(errs, fmt.Errorf("map.monsters_per_room must not be negative, got %d", cfg.Map.MonstersPerRoom))
	}

	if cfg.Simulation.PlayerVision < 1 {
		errs = append(errs, fmt.Errorf("simulation.player_vision must be positive, got %d", cfg.Simulation.PlayerVision))
	}
	if cfg.Simulation.ParticleLifespanMs < 0 {
		errs = append(errs, fmt.Errorf("simulation.particle_lifespan_ms must not be negative, got %.1f", cfg.Simulation.ParticleLifespanMs))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
