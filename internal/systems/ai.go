package systems

import (
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/effects"
	"cognitive-sim/internal/scheduler"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// meleeReach - дистанция, с которой монстр бьёт (соседние клетки, включая диагональ).
const meleeReach = 1.5

// occupancyGrid - карта, на которой клетки с BlocksTile считаются занятыми.
type occupancyGrid struct {
	env  *effects.Env
	self ecs.Entity
}

func (g occupancyGrid) Dimensions() (int, int) {
	return g.env.Map.Dimensions()
}

func (g occupancyGrid) IsPassable(idx int) bool {
	if !g.env.Map.IsPassable(idx) {
		return false
	}
	for _, e := range g.env.Spatial.OccupantsAt(idx) {
		if e != g.self && g.env.Store.Blockers.Has(e) {
			return false
		}
	}
	return true
}

// MonsterAI - ход монстров. Работает только в MonsterTurn.
//
// Для каждого монстра с FieldOfView (в порядке хранилища):
//  1. Confusion: счётчик уменьшается, при < 1 компонент снимается, ход пропущен.
//  2. Игрок ближе meleeReach: вешаем WantsToMelee.
//  3. Игрок в поле зрения: шаг по A* на Steps[1], FOV помечается dirty.
//  4. Иначе стоим.
func MonsterAI(env *effects.Env, state scheduler.TurnState) {
	if state != scheduler.MonsterTurn {
		return
	}
	s := env.Store
	player, ok := s.PlayerEntity()
	if !ok {
		return
	}

	for _, m := range s.Monsters.Entities() {
		// Позицию игрока читаем каждый раз заново.
		playerPos, ok := s.Positions.Get(player)
		if !ok || playerPos.Layer != env.Map.Layer {
			return
		}
		pos, ok := s.Positions.Get(m)
		if !ok || pos.Layer != env.Map.Layer {
			continue
		}
		view, ok := s.Views.Get(m)
		if !ok {
			continue
		}
		aiLog := logger.Log.WithFields(logrus.Fields{
			"component": "ai_system",
			"monster":   m.String(),
			"pos":       pos,
		})

		if skipConfused(env, m) {
			aiLog.Debug("Monster is confused, skipping turn")
			continue
		}

		if pos.DistanceTo(playerPos) < meleeReach {
			s.WantsMelee.Insert(m, domain.WantsToMelee{Target: player})
			aiLog.Debug("Target in melee range")
			continue
		}

		playerIdx, inMap := env.Map.IndexOf(playerPos)
		if !inMap || !view.Sees(playerIdx) {
			continue
		}

		from, _ := env.Map.IndexOf(pos)
		path := FindPath(from, playerIdx, occupancyGrid{env: env, self: m})
		if !path.Success || len(path.Steps) < 2 {
			aiLog.Debug("No path to target")
			continue
		}

		next := path.Steps[1]
		s.Positions.Insert(m, env.Map.PositionOf(next))
		env.Spatial.MoveEntity(m, from, next)
		s.Views.Mutate(m, func(v *domain.FieldOfView) { v.IsDirty = true })
		aiLog.WithField("to", next).Debug("Monster moved towards target")
	}
}

// skipConfused уменьшает счётчик Confusion. true - монстр пропускает ход.
func skipConfused(env *effects.Env, m ecs.Entity) bool {
	s := env.Store
	confused := false
	expired := false
	s.Confusions.Mutate(m, func(c *domain.Confusion) {
		confused = true
		c.Turns--
		expired = c.Turns < 1
	})
	if expired {
		s.Confusions.Remove(m)
	}
	return confused
}
