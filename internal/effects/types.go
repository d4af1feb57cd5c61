// Package effects - отложенное применение игровых эффектов.
//
// Системы не меняют HP, статусы и карту напрямую: они ставят Spawner в Queue,
// а RunEffectsQueue в фиксированной точке тика разбирает очередь до пустоты,
// включая эффекты, добавленные самими обработчиками.
package effects

import (
	"fmt"

	"cognitive-sim/internal/ecs"
)

// Kind - тип эффекта для логов и метрик.
type Kind uint8

const (
	KindBloodstain Kind = iota
	KindEntityDeath
	KindDamage
	KindHealing
	KindConfusion
	KindItemUse
	KindParticle
)

var kindToString = map[Kind]string{
	KindBloodstain:  "bloodstain",
	KindEntityDeath: "entity_death",
	KindDamage:      "damage",
	KindHealing:     "healing",
	KindConfusion:   "confusion",
	KindItemUse:     "item_use",
	KindParticle:    "particle",
}

func (k Kind) String() string {
	if s, ok := kindToString[k]; ok {
		return s
	}
	return "unknown"
}

// Effect - закрытое множество вариантов эффекта.
type Effect interface {
	Kind() Kind
}

type (
	// Bloodstain - косметическое пятно на клетке.
	Bloodstain struct{}
	// EntityDeath - удаление погибшей сущности.
	EntityDeath struct{}
	Damage      struct{ Amount int32 }
	Healing     struct{ Amount int32 }
	// Confusion заменяет (а не складывает) текущее значение.
	Confusion struct{ Turns int32 }
	// ItemUse разворачивается в эффекты по компонентам предмета.
	ItemUse struct{ Item ecs.Entity }
	// Particle - короткоживущая частица; Lifespan в миллисекундах.
	Particle struct {
		Glyph    byte
		Color    uint32
		Lifespan float32
	}
)

func (Bloodstain) Kind() Kind  { return KindBloodstain }
func (EntityDeath) Kind() Kind { return KindEntityDeath }
func (Damage) Kind() Kind      { return KindDamage }
func (Healing) Kind() Kind     { return KindHealing }
func (Confusion) Kind() Kind   { return KindConfusion }
func (ItemUse) Kind() Kind     { return KindItemUse }
func (Particle) Kind() Kind    { return KindParticle }

// Targets - закрытое множество способов адресации эффекта.
type Targets interface {
	isTargets()
	fmt.Stringer
}

type (
	Single     struct{ Target ecs.Entity }
	TargetList struct{ Targets []ecs.Entity }
	Tile       struct{ Index int }
	Tiles      struct{ Indices []int }
)

func (Single) isTargets()     {}
func (TargetList) isTargets() {}
func (Tile) isTargets()       {}
func (Tiles) isTargets()      {}

func (t Single) String() string     { return "single:" + t.Target.String() }
func (t TargetList) String() string { return fmt.Sprintf("list:%d", len(t.Targets)) }
func (t Tile) String() string       { return fmt.Sprintf("tile:%d", t.Index) }
func (t Tiles) String() string      { return fmt.Sprintf("tiles:%d", len(t.Indices)) }

// Spawner - запись очереди. Creator может быть NilEntityID.
type Spawner struct {
	Creator ecs.Entity
	Effect  Effect
	Targets Targets
}

// hitsEntities - эффекты, которые с клетки распространяются на её обитателей.
// Bloodstain и Particle остаются чисто тайловыми, EntityDeath на клетку не действует.
func hitsEntities(e Effect) bool {
	switch e.(type) {
	case Damage, Healing, Confusion:
		return true
	default:
		return false
	}
}
