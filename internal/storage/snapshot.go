package storage

import (
	"errors"
	"fmt"
	"time"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/engine"
	"cognitive-sim/internal/scheduler"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrBusy - снимок можно снять только между ходами.
	ErrBusy = errors.New("simulation is mid-turn")
	// ErrCorruptSnapshot - содержимое снимка не согласовано (размеры карты, координаты).
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// Snapshot - сохранённое состояние одной игры: активный слой и его сущности.
// Частицы и намерения (WantsTo*) не сохраняются.
type Snapshot struct {
	Seed      int64
	Timestamp int64
	Tick      uint64
	Layer     int
	State     scheduler.TurnState

	Map      *domain.Map
	Entities []EntityRecord
}

// EntityRecord - сущность со всеми сохраняемыми компонентами.
// ID - идентификатор на момент сохранения, нужен только для ссылок между записями.
type EntityRecord struct {
	ID   ecs.Entity `json:"id"`
	Kind string     `json:"kind"`

	Position     *domain.Position    `json:"position,omitempty"`
	Name         *domain.Name        `json:"name,omitempty"`
	Description  *domain.Description `json:"description,omitempty"`
	Renderable   *domain.Renderable  `json:"renderable,omitempty"`
	Stats        *domain.CombatStats `json:"stats,omitempty"`
	ViewRadius   *int                `json:"viewRadius,omitempty"`
	Confusion    *domain.Confusion   `json:"confusion,omitempty"`
	BackpackedBy *ecs.Entity         `json:"backpackedBy,omitempty"`

	Player     bool `json:"player,omitempty"`
	Monster    bool `json:"monster,omitempty"`
	BlocksTile bool `json:"blocksTile,omitempty"`
	Item       bool `json:"item,omitempty"`
	Consumable bool `json:"consumable,omitempty"`

	Ranged          *domain.Ranged          `json:"ranged,omitempty"`
	InflictsDamage  *domain.InflictsDamage  `json:"inflictsDamage,omitempty"`
	AreaOfEffect    *domain.AreaOfEffect    `json:"areaOfEffect,omitempty"`
	ProvidesHealing *domain.ProvidesHealing `json:"providesHealing,omitempty"`
	CausesConfusion *domain.CausesConfusion `json:"causesConfusion,omitempty"`
}

// Capture снимает состояние симуляции. Работает в AwaitingInput и GameOver.
func Capture(sim *engine.Simulation, now time.Time) (*Snapshot, error) {
	state := sim.State()
	if state != scheduler.AwaitingInput && state != scheduler.GameOver {
		return nil, fmt.Errorf("%w: %s", ErrBusy, state)
	}

	snap := &Snapshot{
		Seed:      sim.Options().Seed,
		Timestamp: now.UnixMilli(),
		Tick:      sim.TickCount(),
		Layer:     sim.Depth(),
		State:     state,
		Map:       sim.Map,
	}

	s := sim.Store
	for _, e := range s.World.Entities() {
		if s.ParticleLifetime.Has(e) {
			continue
		}
		snap.Entities = append(snap.Entities, record(s, e))
	}
	return snap, nil
}

func record(s *domain.Store, e ecs.Entity) EntityRecord {
	rec := EntityRecord{
		ID:         e,
		Kind:       e.Kind().String(),
		Player:     s.Players.Has(e),
		Monster:    s.Monsters.Has(e),
		BlocksTile: s.Blockers.Has(e),
		Item:       s.Items.Has(e),
		Consumable: s.Consumables.Has(e),
	}
	rec.Position = ptr(s.Positions.Get(e))
	rec.Name = ptr(s.Names.Get(e))
	rec.Description = ptr(s.Descriptions.Get(e))
	rec.Renderable = ptr(s.Renderables.Get(e))
	rec.Stats = ptr(s.Stats.Get(e))
	rec.Confusion = ptr(s.Confusions.Get(e))
	rec.Ranged = ptr(s.Ranged.Get(e))
	rec.InflictsDamage = ptr(s.InflictsDamage.Get(e))
	rec.AreaOfEffect = ptr(s.AreaOfEffect.Get(e))
	rec.ProvidesHealing = ptr(s.ProvidesHealing.Get(e))
	rec.CausesConfusion = ptr(s.CausesConfusion.Get(e))

	if v, ok := s.Views.Get(e); ok {
		rec.ViewRadius = &v.Radius
	}
	if b, ok := s.Backpacks.Get(e); ok {
		rec.BackpackedBy = &b.Owner
	}
	return rec
}

func ptr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

// Restore создаёт симуляцию из снимка. Seed берётся из снимка, чтобы
// следующие слои строились так же, как в сохранённой игре.
func Restore(opts engine.Options, snap *Snapshot) (*engine.Simulation, error) {
	if err := validate(snap); err != nil {
		return nil, err
	}
	opts.Seed = snap.Seed

	m := snap.Map
	m.Layer = snap.Layer
	m.Normalize()

	sim := engine.New(opts)
	populate := func(s *domain.Store) error {
		return populateStore(s, snap.Entities)
	}
	if err := sim.LoadLevel(m, snap.Tick, snap.State, populate); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	return sim, nil
}

// validate проверяет снимок до того, как по нему строится мир.
func validate(snap *Snapshot) error {
	m := snap.Map
	if m == nil {
		return fmt.Errorf("%w: no map", ErrCorruptSnapshot)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: map size %dx%d", ErrCorruptSnapshot, m.Width, m.Height)
	}
	n := m.TileCount()
	if len(m.Tiles) != n {
		return fmt.Errorf("%w: %d tiles for %dx%d map", ErrCorruptSnapshot, len(m.Tiles), m.Width, m.Height)
	}
	if len(m.Revealed) != n {
		return fmt.Errorf("%w: %d revealed flags for %d tiles", ErrCorruptSnapshot, len(m.Revealed), n)
	}
	// Visible не сохраняется в файл, пустой слайс восстановит Normalize.
	if len(m.Visible) != 0 && len(m.Visible) != n {
		return fmt.Errorf("%w: %d visible flags for %d tiles", ErrCorruptSnapshot, len(m.Visible), n)
	}
	for idx := range m.Bloodstains {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: bloodstain at tile %d", ErrCorruptSnapshot, idx)
		}
	}

	for _, rec := range snap.Entities {
		if rec.Position == nil {
			continue
		}
		if !m.InBounds(rec.Position.X, rec.Position.Y) {
			return fmt.Errorf("%w: entity %s at (%d,%d) outside %dx%d map",
				ErrCorruptSnapshot, rec.ID, rec.Position.X, rec.Position.Y, m.Width, m.Height)
		}
	}
	return nil
}

// populateStore создаёт сущности заново. Новые идентификаторы не совпадают
// со старыми, поэтому ссылки (рюкзак) переводятся через таблицу.
func populateStore(s *domain.Store, records []EntityRecord) error {
	ids := make(map[ecs.Entity]ecs.Entity, len(records))
	for _, rec := range records {
		kind := enums.ParseEntityKind(rec.Kind)
		if kind == enums.EntityKindUnknown {
			return fmt.Errorf("entity %s: unknown kind %q", rec.ID, rec.Kind)
		}
		e := s.World.Create(kind)
		ids[rec.ID] = e
		insertComponents(s, e, rec)
	}

	for _, rec := range records {
		if rec.BackpackedBy == nil {
			continue
		}
		owner, ok := ids[*rec.BackpackedBy]
		if !ok {
			return fmt.Errorf("item %s: owner %s is not in snapshot", rec.ID, *rec.BackpackedBy)
		}
		s.Backpacks.Insert(ids[rec.ID], domain.InBackpack{Owner: owner})
	}
	return nil
}

func insertComponents(s *domain.Store, e ecs.Entity, rec EntityRecord) {
	insert(s.Positions, e, rec.Position)
	insert(s.Names, e, rec.Name)
	insert(s.Descriptions, e, rec.Description)
	insert(s.Renderables, e, rec.Renderable)
	insert(s.Stats, e, rec.Stats)
	insert(s.Confusions, e, rec.Confusion)
	insert(s.Ranged, e, rec.Ranged)
	insert(s.InflictsDamage, e, rec.InflictsDamage)
	insert(s.AreaOfEffect, e, rec.AreaOfEffect)
	insert(s.ProvidesHealing, e, rec.ProvidesHealing)
	insert(s.CausesConfusion, e, rec.CausesConfusion)

	if rec.ViewRadius != nil {
		s.Views.Insert(e, domain.FieldOfView{Radius: *rec.ViewRadius, IsDirty: true})
	}

	// Маркеры
	if rec.Player {
		s.Players.Insert(e, domain.Player{})
	}
	if rec.Monster {
		s.Monsters.Insert(e, domain.Monster{})
	}
	if rec.BlocksTile {
		s.Blockers.Insert(e, domain.BlocksTile{})
	}
	if rec.Item {
		s.Items.Insert(e, domain.Item{})
	}
	if rec.Consumable {
		s.Consumables.Insert(e, domain.Consumable{})
	}
}

func insert[T any](st *ecs.Storage[T], e ecs.Entity, v *T) {
	if v != nil {
		st.Insert(e, *v)
	}
}
