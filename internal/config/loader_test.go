package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Simulation.DedupeTargets, "double targeting is the default")
}

func TestLoadFromReader_OverlaysDefaults(t *testing.T) {
	t.Setenv("CD_PORT", "")
	t.Setenv("CD_SEED", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := LoadFromReader(strings.NewReader(`
seed: 42
map:
  width: 40
  height: 20
simulation:
  dedupe_targets: true
debug:
  strict_asserts: true
`))
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 40, cfg.Map.Width)
	assert.Equal(t, 20, cfg.Map.Height)
	assert.Equal(t, 30, cfg.Map.MaxRooms, "untouched fields keep defaults")
	assert.True(t, cfg.Simulation.DedupeTargets)
	assert.True(t, cfg.Debug.StrictAsserts)
}

func TestLoadFromReader_Empty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default().Map, cfg.Map)
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("unknown_key: 1\n"))
	assert.Error(t, err)
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 70000
	cfg.Log.Format = "xml"
	cfg.Map.Width = 3
	cfg.Simulation.PlayerVision = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	msg := err.Error()
	for _, want := range []string{"server.port", "log.format", "map 3x43", "player_vision"} {
		assert.Contains(t, msg, want)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CD_PORT", "9090")
	t.Setenv("CD_SEED", "7")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg))
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("CD_PORT", "nope")
	assert.Error(t, ApplyEnv(cfg))
}

func TestLoad_File(t *testing.T) {
	t.Setenv("CD_PORT", "")
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 1234\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Server.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
