package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/scheduler"
	"cognitive-sim/pkg/dungeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() engine.Options {
	return engine.Options{
		Seed:         7,
		Strict:       true,
		PlayerVision: 8,
		Dungeon:      dungeon.Params{Width: 40, Height: 25, MaxRooms: 8, MonstersPerRoom: 2},
	}
}

// playedSim - игра после пары ходов с зельем в рюкзаке.
func playedSim(t *testing.T) *engine.Simulation {
	t.Helper()
	ctx := context.Background()
	sim := engine.New(testOptions())

	player, ok := sim.Player()
	require.True(t, ok)
	pos, _ := sim.Store.Positions.Get(player)
	potion, ok := dungeon.SpawnItem(sim.Store, dungeon.HealthPotion, pos)
	require.True(t, ok)
	sim.Store.Positions.Remove(potion)
	sim.Store.Backpacks.Insert(potion, domain.InBackpack{Owner: player})
	sim.Store.Stats.Mutate(player, func(s *domain.CombatStats) { s.HP = 17 })

	for i := 0; i < 2; i++ {
		_, err := sim.Advance(ctx, domain.Command{Action: domain.ActionWait, Target: -1})
		require.NoError(t, err)
	}
	return sim
}

func TestRoundTrip(t *testing.T) {
	sim := playedSim(t)
	player, _ := sim.Player()
	wantStats, _ := sim.Store.Stats.Get(player)
	wantPos, _ := sim.Store.Positions.Get(player)

	snap, err := Capture(sim, time.UnixMilli(1700000000000))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))

	read, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap.Seed, read.Seed)
	assert.Equal(t, int64(1700000000000), read.Timestamp)
	assert.Equal(t, sim.TickCount(), read.Tick)
	assert.Len(t, read.Entities, len(snap.Entities))

	restored, err := Restore(testOptions(), read)
	require.NoError(t, err)
	require.NoError(t, restored.CheckIndexInvariant())

	assert.Equal(t, sim.TickCount(), restored.TickCount())
	assert.Equal(t, sim.Depth(), restored.Depth())
	assert.Equal(t, scheduler.AwaitingInput, restored.State())
	assert.Equal(t, sim.Store.Monsters.Len(), restored.Store.Monsters.Len())
	assert.Equal(t, sim.Map.Tiles, restored.Map.Tiles)

	newPlayer, ok := restored.Player()
	require.True(t, ok)
	gotStats, _ := restored.Store.Stats.Get(newPlayer)
	gotPos, _ := restored.Store.Positions.Get(newPlayer)
	assert.Equal(t, wantStats, gotStats)
	assert.Equal(t, wantPos, gotPos)

	// Рюкзак ссылается на нового игрока.
	items := restored.Store.Backpacks.Entities()
	require.Len(t, items, 1)
	pack, _ := restored.Store.Backpacks.Get(items[0])
	assert.Equal(t, newPlayer, pack.Owner)
	assert.Equal(t, "Health Potion", restored.Store.DisplayName(items[0]))

	// Восстановленная игра продолжается.
	acted, err := restored.Advance(context.Background(), domain.Command{Action: domain.ActionWait, Target: -1})
	require.NoError(t, err)
	assert.True(t, acted)
}

func TestCapture_MidTurnIsRejected(t *testing.T) {
	sim := engine.New(testOptions())
	require.True(t, sim.Submit(context.Background(), domain.Command{Action: domain.ActionWait, Target: -1}))

	_, err := Capture(sim, time.Now())
	assert.ErrorIs(t, err, ErrBusy)
}

func TestRead_RejectsBadHeader(t *testing.T) {
	header := func(magic string, version uint32) *bytes.Buffer {
		h := FileHeader{Version: version}
		copy(h.Magic[:], magic)
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, &h))
		return &buf
	}

	_, err := Read(header("CDRP", Version1))
	assert.ErrorIs(t, err, ErrInvalidMagic)

	_, err = Read(header(MagicHeader, 9))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Read(bytes.NewReader([]byte("CD")))
	assert.Error(t, err)
}

func TestRead_TruncatedPayload(t *testing.T) {
	snap, err := Capture(engine.New(testOptions()), time.Now())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snap))

	_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()-10]))
	assert.ErrorContains(t, err, "failed to read payload")
}

func TestRead_RejectsOversizedPayload(t *testing.T) {
	h := FileHeader{
		Version:    Version1,
		State:      uint8(scheduler.AwaitingInput),
		PayloadLen: MaxPayloadLen + 1,
	}
	copy(h.Magic[:], MagicHeader)
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &h))

	_, err := Read(&buf)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestRestore_RejectsCorruptSnapshot(t *testing.T) {
	capture := func(t *testing.T) *Snapshot {
		t.Helper()
		snap, err := Capture(engine.New(testOptions()), time.Now())
		require.NoError(t, err)
		// Своя копия карты: снимок делит её с симуляцией.
		m := *snap.Map
		snap.Map = &m
		snap.Entities = append([]EntityRecord(nil), snap.Entities...)
		return snap
	}

	tests := []struct {
		name   string
		damage func(snap *Snapshot)
	}{
		{"no map", func(snap *Snapshot) { snap.Map = nil }},
		{"tiles cut short", func(snap *Snapshot) { snap.Map.Tiles = snap.Map.Tiles[:10] }},
		{"revealed cut short", func(snap *Snapshot) { snap.Map.Revealed = snap.Map.Revealed[:10] }},
		{"visible size mismatch", func(snap *Snapshot) { snap.Map.Visible = make([]bool, 3) }},
		{"zero width", func(snap *Snapshot) { snap.Map.Width = 0 }},
		{"bloodstain outside map", func(snap *Snapshot) {
			snap.Map.Bloodstains = map[int]bool{snap.Map.TileCount(): true}
		}},
		{"entity outside map", func(snap *Snapshot) {
			for i, rec := range snap.Entities {
				if rec.Position != nil {
					snap.Entities[i].Position = &domain.Position{X: snap.Map.Width, Y: 0, Layer: snap.Layer}
					return
				}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := capture(t)
			tt.damage(snap)

			var sim *engine.Simulation
			var err error
			require.NotPanics(t, func() { sim, err = Restore(testOptions(), snap) })
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.Nil(t, sim)
		})
	}
}

func TestSaveService(t *testing.T) {
	svc, err := NewSaveService(t.TempDir())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.UnixMilli(42) }

	sim := playedSim(t)
	path, err := svc.Save(sim)
	require.NoError(t, err)
	assert.Contains(t, path, "save_7_lvl1_42.cdsv")

	restored, err := svc.Load(path, testOptions())
	require.NoError(t, err)
	assert.Equal(t, sim.TickCount(), restored.TickCount())

	_, err = svc.Load(path+".missing", testOptions())
	assert.Error(t, err)
}
