package domain

import (
	"cognitive-sim/internal/ecs"
)

// Store - мир и все хранилища компонентов симуляции.
// Системы получают его целиком и обращаются к нужным полям.
type Store struct {
	World *ecs.World

	Positions    *ecs.Storage[Position]
	Names        *ecs.Storage[Name]
	Descriptions *ecs.Storage[Description]
	Renderables  *ecs.Storage[Renderable]
	Players      *ecs.Storage[Player]
	Monsters     *ecs.Storage[Monster]
	Blockers     *ecs.Storage[BlocksTile]
	Stats        *ecs.Storage[CombatStats]
	Views        *ecs.Storage[FieldOfView]
	Confusions   *ecs.Storage[Confusion]

	WantsMelee  *ecs.Storage[WantsToMelee]
	WantsPickup *ecs.Storage[WantsToPickup]
	WantsUse    *ecs.Storage[WantsToUse]
	WantsDrop   *ecs.Storage[WantsToDrop]

	Items            *ecs.Storage[Item]
	Consumables      *ecs.Storage[Consumable]
	Ranged           *ecs.Storage[Ranged]
	InflictsDamage   *ecs.Storage[InflictsDamage]
	AreaOfEffect     *ecs.Storage[AreaOfEffect]
	ProvidesHealing  *ecs.Storage[ProvidesHealing]
	CausesConfusion  *ecs.Storage[CausesConfusion]
	Backpacks        *ecs.Storage[InBackpack]
	ParticleLifetime *ecs.Storage[ParticleLifetime]
}

func NewStore(shard uint8) *Store {
	w := ecs.NewWorld(shard)
	return &Store{
		World: w,

		Positions:    ecs.Register[Position](w),
		Names:        ecs.Register[Name](w),
		Descriptions: ecs.Register[Description](w),
		Renderables:  ecs.Register[Renderable](w),
		Players:      ecs.Register[Player](w),
		Monsters:     ecs.Register[Monster](w),
		Blockers:     ecs.Register[BlocksTile](w),
		Stats:        ecs.Register[CombatStats](w),
		Views:        ecs.Register[FieldOfView](w),
		Confusions:   ecs.Register[Confusion](w),

		WantsMelee:  ecs.Register[WantsToMelee](w),
		WantsPickup: ecs.Register[WantsToPickup](w),
		WantsUse:    ecs.Register[WantsToUse](w),
		WantsDrop:   ecs.Register[WantsToDrop](w),

		Items:            ecs.Register[Item](w),
		Consumables:      ecs.Register[Consumable](w),
		Ranged:           ecs.Register[Ranged](w),
		InflictsDamage:   ecs.Register[InflictsDamage](w),
		AreaOfEffect:     ecs.Register[AreaOfEffect](w),
		ProvidesHealing:  ecs.Register[ProvidesHealing](w),
		CausesConfusion:  ecs.Register[CausesConfusion](w),
		Backpacks:        ecs.Register[InBackpack](w),
		ParticleLifetime: ecs.Register[ParticleLifetime](w),
	}
}

// PlayerEntity возвращает первую сущность с маркером Player.
func (s *Store) PlayerEntity() (ecs.Entity, bool) {
	ids := s.Players.Entities()
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// DisplayName возвращает имя сущности или её id, если имени нет.
func (s *Store) DisplayName(e ecs.Entity) string {
	if n, ok := s.Names.Get(e); ok {
		return n.Value
	}
	return e.String()
}
