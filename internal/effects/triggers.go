package effects

import (
	"context"
	"fmt"

	"cognitive-sim/internal/ecs"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Цвета частиц, сопровождающих применение предметов.
const (
	healParticleColor    = 0x00FF00
	damageParticleColor  = 0xFF0000
	confuseParticleColor = 0xFF00FF
)

// itemTrigger разворачивает ItemUse в эффекты по компонентам предмета.
// Порождённые эффекты ставятся в очередь с теми же целями и разбираются
// в этом же проходе. Расходуемый предмет удаляется сразу.
func itemTrigger(ctx context.Context, env *Env, creator, item ecs.Entity, targets Targets) {
	if !env.Store.World.Alive(item) {
		return
	}
	s := env.Store
	name := s.DisplayName(item)
	used := false

	if h, ok := s.ProvidesHealing.Get(item); ok {
		env.Queue.Add(creator, Healing{Amount: int32(h.Amount)}, targets)
		env.Queue.Add(creator, Particle{Glyph: '+', Color: healParticleColor, Lifespan: env.particleLifespan()}, targets)
		env.Log().Info(fmt.Sprintf("You use the %s, healing %d hp.", name, h.Amount))
		used = true
	}
	if d, ok := s.InflictsDamage.Get(item); ok {
		env.Queue.Add(creator, Damage{Amount: int32(d.Damage)}, targets)
		env.Queue.Add(creator, Particle{Glyph: '!', Color: damageParticleColor, Lifespan: env.particleLifespan()}, targets)
		env.Log().Combat(fmt.Sprintf("The %s deals %d damage.", name, d.Damage))
		used = true
	}
	if c, ok := s.CausesConfusion.Get(item); ok {
		env.Queue.Add(creator, Confusion{Turns: c.Turns}, targets)
		env.Queue.Add(creator, Particle{Glyph: '?', Color: confuseParticleColor, Lifespan: env.particleLifespan()}, targets)
		used = true
	}

	if !used {
		env.Log().Info(fmt.Sprintf("The %s does nothing.", name))
		return
	}

	if s.Consumables.Has(item) {
		if idx, ok := env.tileOf(item); ok {
			env.Spatial.Remove(item, idx)
		}
		if err := s.World.Delete(item); err == nil {
			env.metrics().EntityDeleted(ctx, item.Kind().String())
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "effects_runner",
			"item":      item.String(),
			"user":      creator.String(),
		}).Debug("Consumable item used up")
	}
}
