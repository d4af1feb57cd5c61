package effects

import (
	"fmt"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
)

// addConfusion перезаписывает счётчик: новое значение заменяет старое.
func addConfusion(env *Env, target ecs.Entity, turns int32) {
	if !env.Store.Stats.Has(target) {
		return
	}
	if env.Store.Confusions.Insert(target, domain.Confusion{Turns: turns}) {
		env.Log().Info(fmt.Sprintf("%s is confused.", env.Store.DisplayName(target)))
	}
}
