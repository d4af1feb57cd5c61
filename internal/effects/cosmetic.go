package effects

import (
	"cognitive-sim/internal/core/types"
	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
)

// bloodstain помечает клетку. Симуляцию не меняет.
func bloodstain(env *Env, idx int) {
	if idx < 0 || idx >= env.Map.TileCount() {
		return
	}
	if env.Map.Bloodstains == nil {
		env.Map.Bloodstains = make(map[int]bool)
	}
	env.Map.Bloodstains[idx] = true
}

// particleToTile создаёт сущность-частицу. Как у любой сущности с Position,
// у неё есть запись в пространственном индексе.
func particleToTile(env *Env, idx int, p Particle) {
	if idx < 0 || idx >= env.Map.TileCount() {
		return
	}
	e := env.Store.World.Create(enums.EntityKindParticle)
	env.Store.Positions.Insert(e, env.Map.PositionOf(idx))
	env.Store.Renderables.Insert(e, domain.Renderable{
		Glyph: types.MakeGlyph(p.Color, p.Glyph),
		Order: enums.RenderOrderParticle,
	})
	env.Store.ParticleLifetime.Insert(e, domain.ParticleLifetime{RemainingMs: float64(p.Lifespan)})
	env.Spatial.Insert(e, idx)
}
