package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/network"
	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/dungeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// room - снимок с открытой комнатой w x h (стены по краю) и игроком в (px, py).
func room(w, h, px, py int) api.ServerResponse {
	state := api.ServerResponse{
		Type:       "UPDATE",
		State:      "AWAITING_INPUT",
		MyEntityID: "1",
		Grid:       &api.GridMeta{Width: w, Height: h},
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tile := "FLOOR"
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				tile = "WALL"
			}
			state.Map = append(state.Map, api.TileView{X: x, Y: y, Type: tile, IsExplored: true, IsVisible: true})
		}
	}
	state.Entities = append(state.Entities, api.EntityView{
		ID: "1", Kind: "PLAYER", X: px, Y: py,
		Stats: &api.StatsView{HP: 30, MaxHP: 30},
	})
	return state
}

func direction(t *testing.T, cmd api.ClientCommand) api.DirectionPayload {
	t.Helper()
	require.Equal(t, "MOVE", cmd.Action)
	var p api.DirectionPayload
	require.NoError(t, json.Unmarshal(cmd.Payload, &p))
	return p
}

func TestDecide_AttacksAdjacentMonster(t *testing.T) {
	state := room(10, 10, 4, 4)
	state.Entities = append(state.Entities, api.EntityView{ID: "2", Kind: "MONSTER", X: 5, Y: 3})

	p := direction(t, Decide(state))
	assert.Equal(t, api.DirectionPayload{Dx: 1, Dy: -1}, p)
}

func TestDecide_ChasesVisibleMonster(t *testing.T) {
	state := room(12, 10, 2, 4)
	state.Entities = append(state.Entities, api.EntityView{ID: "2", Kind: "MONSTER", X: 8, Y: 4})

	p := direction(t, Decide(state))
	assert.Equal(t, 1, p.Dx)
	assert.Equal(t, 0, p.Dy)
}

func TestDecide_DrinksPotionWhenHurt(t *testing.T) {
	state := room(10, 10, 4, 4)
	state.Entities[0].Stats.HP = 5
	state.Inventory = []api.ItemView{{ID: "77", Name: "Health Potion"}}

	cmd := Decide(state)
	require.Equal(t, "USE", cmd.Action)
	var p api.ItemPayload
	require.NoError(t, json.Unmarshal(cmd.Payload, &p))
	assert.Equal(t, "77", p.ItemID)
}

func TestDecide_PicksUpAndDescends(t *testing.T) {
	state := room(10, 10, 4, 4)
	state.Entities = append(state.Entities, api.EntityView{ID: "3", Kind: "ITEM", X: 4, Y: 4})
	assert.Equal(t, "PICKUP", Decide(state).Action)

	state = room(10, 10, 4, 4)
	for i, tile := range state.Map {
		if tile.X == 4 && tile.Y == 4 {
			state.Map[i].Type = "DOWN_STAIRS"
		}
	}
	assert.Equal(t, "DESCEND", Decide(state).Action)
}

func TestDecide_ExploresFrontier(t *testing.T) {
	state := room(10, 10, 2, 4)
	// Правая половина комнаты ещё не исследована.
	var known []api.TileView
	for _, tile := range state.Map {
		if tile.X <= 5 {
			known = append(known, tile)
		}
	}
	state.Map = known

	p := direction(t, Decide(state))
	assert.Equal(t, 1, p.Dx)
}

func TestDecide_WaitsWithoutSelf(t *testing.T) {
	assert.Equal(t, "WAIT", Decide(api.ServerResponse{}).Action)

	state := room(3, 3, 1, 1)
	assert.Equal(t, "WAIT", Decide(state).Action, "nowhere to go")
}

func TestBot_PlaysHeadless(t *testing.T) {
	sim := engine.New(engine.Options{
		Seed:         11,
		Strict:       true,
		PlayerVision: 8,
		Dungeon:      dungeon.Params{Width: 40, Height: 25, MaxRooms: 8, MonstersPerRoom: 1},
	})
	hub := network.NewBroadcaster()
	inst := engine.NewInstance("bot-test", sim, hub)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go func() { _ = inst.Run(ctx) }()

	bot := NewBot("bot", hub.Register("bot"), inst)
	bot.MaxTurns = 40
	res := bot.Run(ctx)

	assert.Positive(t, res.Turns)
	require.NoError(t, inst.Inspect(ctx, func(s *engine.Simulation) {
		assert.NoError(t, s.CheckIndexInvariant())
	}))
}
