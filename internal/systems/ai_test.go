package systems

import (
	"testing"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonsterAI(t *testing.T) {
	t.Run("adjacent diagonal attacks", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		player := f.player(t, domain.Position{X: 5, Y: 5})
		goblin := f.monster(t, domain.Position{X: 6, Y: 6}) // ~1.41
		Visibility(f.env)

		MonsterAI(f.env, scheduler.MonsterTurn)

		intent, ok := f.env.Store.WantsMelee.Get(goblin)
		require.True(t, ok)
		assert.Equal(t, player, intent.Target)
		assert.Equal(t, domain.Position{X: 6, Y: 6}, f.pos(t, goblin), "attacker does not move")
	})

	t.Run("distant visible player is approached one step per tick", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		f.player(t, domain.Position{X: 5, Y: 5})
		goblin := f.monster(t, domain.Position{X: 5, Y: 0}) // 5.0
		Visibility(f.env)

		prev := f.pos(t, goblin)
		for tick := 0; tick < 3; tick++ {
			MonsterAI(f.env, scheduler.MonsterTurn)
			Visibility(f.env)

			cur := f.pos(t, goblin)
			assert.True(t, cur.IsAdjacent(prev), "tick %d: one step", tick)
			assert.Greater(t, cur.Y, prev.Y)
			assert.True(t, f.env.Spatial.Contains(goblin, f.idx(cur)))
			assert.False(t, f.env.Spatial.Contains(goblin, f.idx(prev)))
			prev = cur
		}
		assert.False(t, f.env.Store.WantsMelee.Has(goblin))
	})

	t.Run("no line of sight stays put", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		for y := 0; y < 12; y++ {
			f.env.Map.SetTile(3, y, enums.TileWall)
		}
		f.player(t, domain.Position{X: 1, Y: 5})
		goblin := f.monster(t, domain.Position{X: 8, Y: 5})
		Visibility(f.env)

		MonsterAI(f.env, scheduler.MonsterTurn)

		assert.Equal(t, domain.Position{X: 8, Y: 5}, f.pos(t, goblin))
		assert.False(t, f.env.Store.WantsMelee.Has(goblin))
	})

	t.Run("confused monster skips exactly one turn", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		f.player(t, domain.Position{X: 5, Y: 5})
		goblin := f.monster(t, domain.Position{X: 5, Y: 6})
		f.env.Store.Confusions.Insert(goblin, domain.Confusion{Turns: 1})
		Visibility(f.env)

		MonsterAI(f.env, scheduler.MonsterTurn)
		assert.False(t, f.env.Store.WantsMelee.Has(goblin), "confused: no action this tick")
		assert.False(t, f.env.Store.Confusions.Has(goblin), "counter reached zero and was removed")

		MonsterAI(f.env, scheduler.MonsterTurn)
		assert.True(t, f.env.Store.WantsMelee.Has(goblin), "acts normally next tick")
	})

	t.Run("longer confusion counts down", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		f.player(t, domain.Position{X: 5, Y: 5})
		goblin := f.monster(t, domain.Position{X: 5, Y: 6})
		f.env.Store.Confusions.Insert(goblin, domain.Confusion{Turns: 3})

		MonsterAI(f.env, scheduler.MonsterTurn)
		c, ok := f.env.Store.Confusions.Get(goblin)
		require.True(t, ok)
		assert.Equal(t, int32(2), c.Turns)
	})

	t.Run("inactive outside monster turn", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		f.player(t, domain.Position{X: 5, Y: 5})
		goblin := f.monster(t, domain.Position{X: 5, Y: 6})

		for _, st := range []scheduler.TurnState{scheduler.AwaitingInput, scheduler.PlayerTurn, scheduler.GameOver} {
			MonsterAI(f.env, st)
		}
		assert.False(t, f.env.Store.WantsMelee.Has(goblin))
	})

	t.Run("monster without field of view does not act", func(t *testing.T) {
		f := newFixture(t, 12, 12)
		f.player(t, domain.Position{X: 5, Y: 5})
		goblin := f.monster(t, domain.Position{X: 5, Y: 6})
		f.env.Store.Views.Remove(goblin)
		f.env.Store.Confusions.Insert(goblin, domain.Confusion{Turns: 2})

		MonsterAI(f.env, scheduler.MonsterTurn)

		assert.False(t, f.env.Store.WantsMelee.Has(goblin))
		c, ok := f.env.Store.Confusions.Get(goblin)
		require.True(t, ok)
		assert.Equal(t, int32(2), c.Turns, "confusion does not tick")
	})

	t.Run("other monsters block the corridor", func(t *testing.T) {
		f := newFixture(t, 7, 3)
		for x := 0; x < 7; x++ {
			f.env.Map.SetTile(x, 0, enums.TileWall)
			f.env.Map.SetTile(x, 2, enums.TileWall)
		}
		f.player(t, domain.Position{X: 0, Y: 1})
		front := f.monster(t, domain.Position{X: 1, Y: 1})
		back := f.monster(t, domain.Position{X: 2, Y: 1})
		Visibility(f.env)

		MonsterAI(f.env, scheduler.MonsterTurn)
		assert.True(t, f.env.Store.WantsMelee.Has(front))
		assert.Equal(t, domain.Position{X: 2, Y: 1}, f.pos(t, back))
	})
}
