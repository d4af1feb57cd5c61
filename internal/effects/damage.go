package effects

import (
	"context"
	"fmt"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

const (
	hitGlyph = '*'
	hitColor = 0xFF4500
)

// inflictDamage уменьшает HP (не ниже нуля). Смертельный удар ставит
// EntityDeath с тем же создателем, иначе на клетке цели вспыхивает частица.
// Удар по цели, у которой HP уже 0, второй смерти не ставит.
func inflictDamage(env *Env, sp Spawner, target ecs.Entity, amount int32) {
	var lethal, down bool
	found := env.Store.Stats.Mutate(target, func(s *domain.CombatStats) {
		down = s.HP <= 0
		lethal = s.TakeDamage(int(amount))
	})
	if !found || down {
		return
	}

	if lethal {
		env.Queue.Add(sp.Creator, EntityDeath{}, Single{Target: target})
		return
	}
	env.Queue.Add(sp.Creator, Particle{Glyph: hitGlyph, Color: hitColor, Lifespan: env.particleLifespan()}, Single{Target: target})
}

// heal восстанавливает HP не выше MaxHP.
func heal(env *Env, target ecs.Entity, amount int32) {
	env.Store.Stats.Mutate(target, func(s *domain.CombatStats) {
		s.Heal(int(amount))
	})
}

// death снимает сущность с индекса, удаляет из хранилища и оставляет пятно
// крови на её последней клетке. Игрок не удаляется: симуляция уходит в GameOver.
func death(ctx context.Context, env *Env, sp Spawner, target ecs.Entity) {
	if !env.Store.World.Alive(target) {
		return
	}
	name := env.Store.DisplayName(target)

	if env.Store.Players.Has(target) {
		env.Log().Combat("You are dead!")
		if env.OnPlayerDeath != nil {
			env.OnPlayerDeath(target)
		}
		return
	}

	idx, onTile := env.tileOf(target)
	if onTile {
		env.Spatial.Remove(target, idx)
	}
	dropHeldItems(env, target, idx, onTile)

	if err := env.Store.World.Delete(target); err != nil {
		return
	}
	env.metrics().EntityDeleted(ctx, target.Kind().String())
	env.Log().Combat(fmt.Sprintf("%s is dead.", name))

	logger.Log.WithFields(logrus.Fields{
		"component": "effects_runner",
		"entity":    target.String(),
		"tile":      idx,
	}).Debug("Entity removed after death")

	if onTile {
		env.Queue.Add(sp.Creator, Bloodstain{}, Tile{Index: idx})
	}
}

// dropHeldItems выкладывает инвентарь погибшего на его клетку, чтобы предметы
// не остались висеть с InBackpack на удалённого владельца.
func dropHeldItems(env *Env, owner ecs.Entity, idx int, onTile bool) {
	for _, item := range env.Store.Backpacks.Entities() {
		pack, ok := env.Store.Backpacks.Get(item)
		if !ok || pack.Owner != owner {
			continue
		}
		env.Store.Backpacks.Remove(item)
		if !onTile {
			_ = env.Store.World.Delete(item)
			continue
		}
		env.Store.Positions.Insert(item, env.Map.PositionOf(idx))
		env.Spatial.Insert(item, idx)
	}
}
