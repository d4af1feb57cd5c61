package domain

import (
	"cognitive-sim/internal/core/types"
	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/ecs"
)

// --- КОМПОНЕНТЫ ---

// Position - клетка на карте. Сущность с Position обязана находиться
// ровно в одной ячейке пространственного индекса своего слоя.
type Position struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Layer int `json:"layer"`
}

type Name struct {
	Value string `json:"value"`
}

// Description - текст для осмотра.
type Description struct {
	Text string `json:"text"`
}

// Renderable - визуализация (клиент)
type Renderable struct {
	Glyph types.Glyph       `json:"glyph"`
	Order enums.RenderOrder `json:"order"`
}

// Маркеры.
type (
	Player     struct{}
	Monster    struct{}
	BlocksTile struct{}
	Item       struct{}
	Consumable struct{}
)

// CombatStats - характеристики боя.
type CombatStats struct {
	MaxHP   int `json:"maxHp"`
	HP      int `json:"hp"`
	Defense int `json:"defense"`
	Power   int `json:"power"`
}

// FieldOfView - настройки и кэш зрения.
type FieldOfView struct {
	Radius  int          `json:"radius"`
	Visible map[int]bool `json:"-"` // не сериализуем кэш
	IsDirty bool         `json:"-"` // флаг для пересчета
}

// Sees проверяет, попадает ли клетка в последний рассчитанный FOV.
func (f FieldOfView) Sees(idx int) bool {
	return f.Visible[idx]
}

// Confusion - сколько ходов монстр ещё пропускает.
type Confusion struct {
	Turns int32 `json:"turns"`
}

// --- НАМЕРЕНИЯ (intent-компоненты, живут до обработки системой) ---

type WantsToMelee struct {
	Target ecs.Entity `json:"target"`
}

type WantsToPickup struct {
	Item ecs.Entity `json:"item"`
}

// WantsToUse описывает применение предмета. Target - индекс клетки
// для предметов с Ranged, -1 если цель не нужна.
type WantsToUse struct {
	Item   ecs.Entity `json:"item"`
	Target int        `json:"target"`
}

type WantsToDrop struct {
	Item ecs.Entity `json:"item"`
}

// --- ПРЕДМЕТЫ ---

type Ranged struct {
	Range int `json:"range"`
}

type InflictsDamage struct {
	Damage int `json:"damage"`
}

type AreaOfEffect struct {
	Radius int `json:"radius"`
}

type ProvidesHealing struct {
	Amount int `json:"amount"`
}

type CausesConfusion struct {
	Turns int32 `json:"turns"`
}

// InBackpack - предмет в инвентаре. У такого предмета нет Position.
type InBackpack struct {
	Owner ecs.Entity `json:"owner"`
}

// ParticleLifetime - оставшееся время жизни частицы.
type ParticleLifetime struct {
	RemainingMs float64 `json:"remainingMs"`
}
