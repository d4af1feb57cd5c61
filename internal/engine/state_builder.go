package engine

import (
	"strconv"

	"cognitive-sim/internal/ecs"
	"cognitive-sim/pkg/api"
)

// BuildState создаёт снимок мира глазами игрока: исследованные клетки,
// видимые сущности, рюкзак и новые записи журнала (журнал при этом очищается).
func (s *Simulation) BuildState() *api.ServerResponse {
	resp := &api.ServerResponse{
		Type:  "UPDATE",
		Tick:  s.tick,
		State: s.State().String(),
		Grid:  &api.GridMeta{Width: s.Map.Width, Height: s.Map.Height, Depth: s.Map.Layer},
		Logs:  s.Log.Drain(),
	}

	player, hasPlayer := s.Player()
	if hasPlayer {
		resp.MyEntityID = strconv.FormatUint(uint64(player), 10)
	}

	// 1. Карта (туман войны: только исследованные клетки)
	for idx, tile := range s.Map.Tiles {
		if !s.Map.IsRevealed(idx) {
			continue
		}
		x, y := s.Map.Coords(idx)
		resp.Map = append(resp.Map, api.TileView{
			X: x, Y: y,
			Type:       tile.Type.String(),
			IsVisible:  s.Map.IsVisible(idx),
			IsExplored: true,
			Bloodstain: s.Map.Bloodstains[idx],
		})
	}

	// 2. Сущности: себя видим всегда, остальных - в поле зрения
	s.Index.Each(func(idx int, occupants []ecs.Entity) {
		for _, e := range occupants {
			if e != player && !s.Map.IsVisible(idx) {
				continue
			}
			if view, ok := s.entityView(e); ok {
				resp.Entities = append(resp.Entities, view)
			}
		}
	})

	// 3. Рюкзак игрока
	if hasPlayer {
		for _, item := range s.Store.Backpacks.Entities() {
			pack, ok := s.Store.Backpacks.Get(item)
			if !ok || pack.Owner != player {
				continue
			}
			iv := api.ItemView{
				ID:   strconv.FormatUint(uint64(item), 10),
				Name: s.Store.DisplayName(item),
			}
			if r, ok := s.Store.Renderables.Get(item); ok {
				iv.Char = string([]byte{r.Glyph.Char()})
				iv.Color = r.Glyph.HexColor()
			}
			if rg, ok := s.Store.Ranged.Get(item); ok {
				iv.Ranged = rg.Range
			}
			resp.Inventory = append(resp.Inventory, iv)
		}
	}

	return resp
}

// entityView конвертирует сущность в DTO. Сущности без Renderable не видны клиенту.
func (s *Simulation) entityView(e ecs.Entity) (api.EntityView, bool) {
	pos, ok := s.Store.Positions.Get(e)
	if !ok {
		return api.EntityView{}, false
	}
	r, ok := s.Store.Renderables.Get(e)
	if !ok {
		return api.EntityView{}, false
	}

	view := api.EntityView{
		ID:    strconv.FormatUint(uint64(e), 10),
		Kind:  e.Kind().String(),
		X:     pos.X,
		Y:     pos.Y,
		Char:  string([]byte{r.Glyph.Char()}),
		Color: r.Glyph.HexColor(),
	}
	if n, ok := s.Store.Names.Get(e); ok {
		view.Name = n.Value
	}
	if st, ok := s.Store.Stats.Get(e); ok {
		view.Stats = &api.StatsView{HP: st.HP, MaxHP: st.MaxHP, Power: st.Power, Defense: st.Defense}
	}
	if c, ok := s.Store.Confusions.Get(e); ok {
		view.Confused = c.Turns
	}
	return view, true
}
