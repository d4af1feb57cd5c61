package systems

import (
	"fmt"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/effects"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ItemCollection переносит предмет с карты в рюкзак: Position и запись
// в индексе снимаются вместе.
func ItemCollection(env *effects.Env) {
	s := env.Store
	for _, who := range s.WantsPickup.Entities() {
		intent, ok := s.WantsPickup.Get(who)
		s.WantsPickup.Remove(who)
		if !ok || !s.World.Alive(intent.Item) {
			continue
		}

		if idx, onMap := tileOf(env, intent.Item); onMap {
			env.Spatial.Remove(intent.Item, idx)
		}
		s.Positions.Remove(intent.Item)
		s.Backpacks.Insert(intent.Item, domain.InBackpack{Owner: who})

		if s.Players.Has(who) {
			env.Log().Info(fmt.Sprintf("You pick up the %s.", s.DisplayName(intent.Item)))
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "inventory_system",
			"owner":     who.String(),
			"item":      intent.Item.String(),
		}).Debug("Item picked up")
	}
}

// ItemUseIntents ставит ItemUse в очередь эффектов. Цели: сам пользователь
// для обычных предметов, клетка для Ranged, круг клеток для AreaOfEffect.
func ItemUseIntents(env *effects.Env) {
	s := env.Store
	for _, who := range s.WantsUse.Entities() {
		intent, ok := s.WantsUse.Get(who)
		s.WantsUse.Remove(who)
		if !ok || !s.World.Alive(intent.Item) {
			continue
		}

		var targets effects.Targets = effects.Single{Target: who}
		if intent.Target >= 0 {
			targets = effects.Tile{Index: intent.Target}
			if aoe, hasAoE := s.AreaOfEffect.Get(intent.Item); hasAoE {
				targets = effects.Tiles{Indices: env.Map.TilesInRadius(intent.Target, aoe.Radius)}
			}
		}
		env.Queue.Add(who, effects.ItemUse{Item: intent.Item}, targets)
	}
}

// ItemDrop выкладывает предмет на клетку владельца.
func ItemDrop(env *effects.Env) {
	s := env.Store
	for _, who := range s.WantsDrop.Entities() {
		intent, ok := s.WantsDrop.Get(who)
		s.WantsDrop.Remove(who)
		if !ok || !carriedBy(env, intent.Item, who) {
			continue
		}
		pos, ok := s.Positions.Get(who)
		if !ok {
			continue
		}
		idx, ok := env.Map.IndexOf(pos)
		if !ok {
			continue
		}

		s.Backpacks.Remove(intent.Item)
		s.Positions.Insert(intent.Item, pos)
		env.Spatial.Insert(intent.Item, idx)

		if s.Players.Has(who) {
			env.Log().Info(fmt.Sprintf("You drop the %s.", s.DisplayName(intent.Item)))
		}
	}
}
