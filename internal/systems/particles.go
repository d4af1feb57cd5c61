package systems

import (
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/effects"
)

// ParticleAging уменьшает время жизни частиц и удаляет истёкшие
// (сначала из индекса, затем из хранилища).
func ParticleAging(env *effects.Env, elapsedMs float64) {
	s := env.Store
	for _, e := range s.ParticleLifetime.Entities() {
		expired := false
		s.ParticleLifetime.Mutate(e, func(p *domain.ParticleLifetime) {
			p.RemainingMs -= elapsedMs
			expired = p.RemainingMs <= 0
		})
		if !expired {
			continue
		}
		if idx, ok := tileOf(env, e); ok {
			env.Spatial.Remove(e, idx)
		}
		_ = s.World.Delete(e)
	}
}
