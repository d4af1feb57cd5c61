package systems

import (
	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/effects"
)

// Действия игрока выполняются в AwaitingInput. Каждое возвращает true, если
// действие засчитано как ход (планировщик переходит в PlayerTurn).
// false - ввод не действенный, ход не тратится.

// TryMovePlayer двигает игрока или, если в клетке враг, атакует его.
func TryMovePlayer(env *effects.Env, dx, dy int) bool {
	s := env.Store
	player, ok := s.PlayerEntity()
	if !ok {
		return false
	}
	pos, ok := s.Positions.Get(player)
	if !ok {
		return false
	}

	dest := pos.Shift(dx, dy)
	to, ok := env.Map.IndexOf(dest)
	if !ok {
		return false
	}

	for _, e := range env.Spatial.OccupantsAt(to) {
		if s.Monsters.Has(e) && s.Stats.Has(e) {
			s.WantsMelee.Insert(player, domain.WantsToMelee{Target: e})
			return true
		}
	}

	if !env.Map.IsPassable(to) || blockedBy(env, to, player) {
		return false
	}

	from, _ := env.Map.IndexOf(pos)
	s.Positions.Insert(player, dest)
	env.Spatial.MoveEntity(player, from, to)
	s.Views.Mutate(player, func(v *domain.FieldOfView) { v.IsDirty = true })
	return true
}

// SkipTurn - ожидание. Если рядом не видно монстров, игрок восстанавливает 1 HP.
func SkipTurn(env *effects.Env) bool {
	s := env.Store
	player, ok := s.PlayerEntity()
	if !ok {
		return false
	}

	if !monsterInView(env, player) {
		env.Queue.Add(player, effects.Healing{Amount: 1}, effects.Single{Target: player})
	}
	return true
}

// PickupItem вешает WantsToPickup на первый предмет под игроком.
func PickupItem(env *effects.Env) bool {
	s := env.Store
	player, ok := s.PlayerEntity()
	if !ok {
		return false
	}
	idx, ok := tileOf(env, player)
	if !ok {
		return false
	}

	for _, e := range env.Spatial.OccupantsAt(idx) {
		if s.Items.Has(e) {
			s.WantsPickup.Insert(player, domain.WantsToPickup{Item: e})
			return true
		}
	}
	env.Log().Info("There is nothing here to pick up.")
	return false
}

// UseItem готовит применение предмета из рюкзака. target - индекс клетки
// для предметов с Ranged (-1, если не задан).
func UseItem(env *effects.Env, item ecs.Entity, target int) bool {
	s := env.Store
	player, ok := s.PlayerEntity()
	if !ok || !carriedBy(env, item, player) {
		env.Log().Error("You don't have that item.")
		return false
	}

	if ranged, isRanged := s.Ranged.Get(item); isRanged {
		if !validRangedTarget(env, player, target, ranged.Range) {
			env.Log().Error("That target is out of reach.")
			return false
		}
	} else {
		target = -1
	}

	s.WantsUse.Insert(player, domain.WantsToUse{Item: item, Target: target})
	return true
}

// DropItem готовит выкладывание предмета из рюкзака под ноги.
func DropItem(env *effects.Env, item ecs.Entity) bool {
	s := env.Store
	player, ok := s.PlayerEntity()
	if !ok || !carriedBy(env, item, player) {
		env.Log().Error("You don't have that item.")
		return false
	}
	s.WantsDrop.Insert(player, domain.WantsToDrop{Item: item})
	return true
}

// CanDescend проверяет, стоит ли игрок на лестнице вниз.
func CanDescend(env *effects.Env) bool {
	player, ok := env.Store.PlayerEntity()
	if !ok {
		return false
	}
	idx, ok := tileOf(env, player)
	if ok && env.Map.TileType(idx) == enums.TileDownStairs {
		return true
	}
	env.Log().Info("There is no way down from here.")
	return false
}

func validRangedTarget(env *effects.Env, player ecs.Entity, target, reach int) bool {
	if target < 0 || target >= env.Map.TileCount() {
		return false
	}
	view, ok := env.Store.Views.Get(player)
	if !ok || !view.Sees(target) {
		return false
	}
	pos, _ := env.Store.Positions.Get(player)
	dest := env.Map.PositionOf(target)
	if pos.DistanceTo(dest) > float64(reach) {
		return false
	}
	return HasLineOfSight(env.Map, pos, dest)
}

func monsterInView(env *effects.Env, viewer ecs.Entity) bool {
	view, ok := env.Store.Views.Get(viewer)
	if !ok {
		return false
	}
	for idx := range view.Visible {
		for _, e := range env.Spatial.OccupantsAt(idx) {
			if env.Store.Monsters.Has(e) {
				return true
			}
		}
	}
	return false
}

func blockedBy(env *effects.Env, idx int, self ecs.Entity) bool {
	for _, e := range env.Spatial.OccupantsAt(idx) {
		if e != self && env.Store.Blockers.Has(e) {
			return true
		}
	}
	return false
}

func carriedBy(env *effects.Env, item, owner ecs.Entity) bool {
	pack, ok := env.Store.Backpacks.Get(item)
	return ok && pack.Owner == owner
}

func tileOf(env *effects.Env, e ecs.Entity) (int, bool) {
	pos, ok := env.Store.Positions.Get(e)
	if !ok || pos.Layer != env.Map.Layer {
		return -1, false
	}
	return env.Map.IndexOf(pos)
}
