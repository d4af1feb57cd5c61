package effects

import (
	"context"

	"cognitive-sim/internal/ecs"
)

// resolve раскладывает один Spawner по получателям.
func resolve(ctx context.Context, env *Env, sp Spawner) {
	// ItemUse обходит общую диспетчеризацию.
	if use, ok := sp.Effect.(ItemUse); ok {
		itemTrigger(ctx, env, sp.Creator, use.Item, sp.Targets)
		return
	}

	var seen map[ecs.Entity]struct{}
	if env.DedupeTargets {
		seen = make(map[ecs.Entity]struct{})
	}
	hit := func(target ecs.Entity) {
		if seen != nil {
			if _, dup := seen[target]; dup {
				return
			}
			seen[target] = struct{}{}
		}
		affectEntity(ctx, env, sp, target)
	}

	switch t := sp.Targets.(type) {
	case Single:
		hit(t.Target)
	case TargetList:
		for _, target := range t.Targets {
			hit(target)
		}
	case Tile:
		affectTile(ctx, env, sp, t.Index, hit)
	case Tiles:
		for _, idx := range t.Indices {
			affectTile(ctx, env, sp, idx, hit)
		}
	}
}

func affectTile(ctx context.Context, env *Env, sp Spawner, idx int, hit func(ecs.Entity)) {
	if hitsEntities(sp.Effect) {
		// Снимок: обработчик может убрать сущность из клетки посреди обхода.
		for _, target := range env.Spatial.OccupantsAt(idx) {
			hit(target)
		}
	}

	switch e := sp.Effect.(type) {
	case Bloodstain:
		bloodstain(env, idx)
	case Particle:
		particleToTile(env, idx, e)
	}
}

func affectEntity(ctx context.Context, env *Env, sp Spawner, target ecs.Entity) {
	switch e := sp.Effect.(type) {
	case Damage:
		inflictDamage(env, sp, target, e.Amount)
	case EntityDeath:
		death(ctx, env, sp, target)
	case Healing:
		heal(env, target, e.Amount)
	case Confusion:
		addConfusion(env, target, e.Turns)
	case Particle:
		if idx, ok := env.tileOf(target); ok {
			particleToTile(env, idx, e)
		}
	case Bloodstain:
		if idx, ok := env.tileOf(target); ok {
			bloodstain(env, idx)
		}
	}
}
