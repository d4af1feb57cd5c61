package systems

import (
	"fmt"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/effects"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// MeleeCombat превращает WantsToMelee в Damage{max(0, power - defense)}.
// Намерение снимается в любом случае.
func MeleeCombat(env *effects.Env) {
	s := env.Store
	for _, attacker := range s.WantsMelee.Entities() {
		intent, ok := s.WantsMelee.Get(attacker)
		s.WantsMelee.Remove(attacker)
		if !ok {
			continue
		}

		atk, ok := s.Stats.Get(attacker)
		if !ok || atk.HP <= 0 {
			continue
		}
		def, ok := s.Stats.Get(intent.Target)
		if !ok || def.HP <= 0 {
			continue
		}

		attackerName := s.DisplayName(attacker)
		targetName := s.DisplayName(intent.Target)
		damage := domain.MeleeDamage(atk, def)

		logger.Log.WithFields(logrus.Fields{
			"component": "melee_system",
			"attacker":  attacker.String(),
			"target":    intent.Target.String(),
			"damage":    damage,
		}).Debug("Melee attack")

		if damage == 0 {
			env.Log().Combat(fmt.Sprintf("%s is unable to hurt %s.", attackerName, targetName))
			continue
		}
		env.Log().Combat(fmt.Sprintf("%s hits %s, for %d hp.", attackerName, targetName, damage))
		env.Queue.Add(attacker, effects.Damage{Amount: int32(damage)}, effects.Single{Target: intent.Target})
	}
}
