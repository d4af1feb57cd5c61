// Package engine - контекст симуляции: хранилище, активная карта, её
// пространственный индекс, очередь эффектов, планировщик ходов и журнал.
//
// Тик:
//  1. системы текущего состояния (стадиями, внутри стадии можно параллельно);
//  2. один полный разбор очереди эффектов;
//  3. переход планировщика.
//
// Simulation не потокобезопасна на уровне тиков: Submit/Tick/Advance
// вызывает один владелец (Instance или тест).
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"cognitive-sim/internal/config"
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/effects"
	"cognitive-sim/internal/gamelog"
	"cognitive-sim/internal/observe"
	"cognitive-sim/internal/scheduler"
	"cognitive-sim/internal/spatial"
	"cognitive-sim/internal/systems"
	"cognitive-sim/pkg/dungeon"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// frameMs - сколько "реального" времени занимает один тик для старения частиц.
const frameMs = 100

// Options хранит параметры запуска симуляции
type Options struct {
	// Seed - мастер-зерно. Слой N строится из Seed + N.
	Seed  int64
	Shard uint8

	Strict        bool
	Parallel      bool
	DedupeTargets bool

	PlayerVision       int
	ParticleLifespanMs float32

	Dungeon dungeon.Params

	// Metrics может быть nil.
	Metrics *observe.Metrics
}

// OptionsFromConfig переносит настройки из конфига.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Seed:               cfg.Seed,
		Shard:              cfg.ShardID,
		Strict:             cfg.Debug.StrictAsserts,
		Parallel:           cfg.Simulation.ParallelSystems,
		DedupeTargets:      cfg.Simulation.DedupeTargets,
		PlayerVision:       cfg.Simulation.PlayerVision,
		ParticleLifespanMs: cfg.Simulation.ParticleLifespanMs,
		Dungeon: dungeon.Params{
			Width:           cfg.Map.Width,
			Height:          cfg.Map.Height,
			MaxRooms:        cfg.Map.MaxRooms,
			MonstersPerRoom: cfg.Map.MonstersPerRoom,
		},
	}
}

// Simulation - всё состояние одной игры.
type Simulation struct {
	opts Options

	Store     *domain.Store
	Map       *domain.Map
	Layers    *spatial.Layers
	Index     *spatial.Index
	Queue     *effects.Queue
	Scheduler *scheduler.Scheduler
	Log       *gamelog.Log
	Rng       *rand.Rand

	env     *effects.Env
	metrics *observe.Metrics

	playerTurn  *systems.Dispatcher
	monsterTurn *systems.Dispatcher

	tick       uint64
	playerDead bool
}

// New создаёт игру и строит первый слой подземелья из Seed.
func New(opts Options) *Simulation {
	const firstLayer = 1
	lvl := dungeon.Generate(firstLayer, dungeon.LayerSeed(opts.Seed, firstLayer), opts.Dungeon)
	return NewFromLevel(opts, lvl)
}

// NewFromLevel создаёт игру на готовом слое: игрок в lvl.Start,
// остальные сущности из lvl.Spawns.
func NewFromLevel(opts Options, lvl *dungeon.Level) *Simulation {
	if opts.PlayerVision <= 0 {
		opts.PlayerVision = 8
	}

	s := &Simulation{
		opts:      opts,
		Store:     domain.NewStore(opts.Shard),
		Layers:    spatial.NewLayers(opts.Strict),
		Queue:     effects.NewQueue(),
		Scheduler: scheduler.New(),
		Log:       gamelog.New(fmt.Sprintf("shard-%d", opts.Shard)),
		Rng:       rand.New(rand.NewSource(opts.Seed)),
		metrics:   opts.Metrics,
	}

	s.env = &effects.Env{
		Store:              s.Store,
		Queue:              s.Queue,
		Journal:            s.Log,
		DedupeTargets:      opts.DedupeTargets,
		ParticleLifespanMs: opts.ParticleLifespanMs,
		OnPlayerDeath: func(ecs.Entity) {
			s.playerDead = true
		},
	}
	// Типизированный nil в интерфейсе сломал бы no-op по умолчанию.
	if opts.Metrics != nil {
		s.env.Metrics = opts.Metrics
	}

	s.buildDispatchers()
	s.enterLevel(lvl.Map)
	dungeon.SpawnPlayer(s.Store, lvl.Start, opts.PlayerVision)
	dungeon.Populate(s.Store, lvl)
	s.RebuildIndex()
	systems.Visibility(s.env)

	s.logger().WithFields(logrus.Fields{
		"seed":     opts.Seed,
		"layer":    lvl.Map.Layer,
		"entities": s.Store.World.Len(),
	}).Info("Simulation created")
	return s
}

func (s *Simulation) buildDispatchers() {
	env := s.env
	particles := systems.Func("particles", func() { systems.ParticleAging(env, frameMs) })
	melee := systems.Func("melee", func() { systems.MeleeCombat(env) })
	visibility := systems.Func("visibility", func() { systems.Visibility(env) })

	s.playerTurn = systems.NewDispatcher(s.opts.Parallel,
		systems.Stage{
			melee,
			systems.Func("item_collection", func() { systems.ItemCollection(env) }),
			systems.Func("item_use", func() { systems.ItemUseIntents(env) }),
			systems.Func("item_drop", func() { systems.ItemDrop(env) }),
			particles,
		},
		systems.Stage{visibility},
	)

	s.monsterTurn = systems.NewDispatcher(s.opts.Parallel,
		systems.Stage{
			systems.Func("monster_ai", func() { systems.MonsterAI(env, s.Scheduler.State()) }),
			particles,
		},
		systems.Stage{melee},
		systems.Stage{visibility},
	)
}

// enterLevel делает m активной картой и (пере)размечает её индекс.
func (s *Simulation) enterLevel(m *domain.Map) {
	s.Map = m
	s.Index = s.Layers.Establish(m.Layer, m.TileCount())
	s.env.Map = s.Map
	s.env.Spatial = s.Index
}

func (s *Simulation) logger() *logrus.Entry {
	return logger.WithComponent("simulation")
}

// Env отдаёт окружение обработчиков (для систем и тестов).
func (s *Simulation) Env() *effects.Env {
	return s.env
}

func (s *Simulation) Options() Options {
	return s.opts
}

func (s *Simulation) State() scheduler.TurnState {
	return s.Scheduler.State()
}

// TickCount возвращает число выполненных тиков.
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// Depth - номер активного слоя.
func (s *Simulation) Depth() int {
	return s.Map.Layer
}

func (s *Simulation) Player() (ecs.Entity, bool) {
	return s.Store.PlayerEntity()
}

// AddEffect ставит эффект в очередь. Не блокируется; эффект будет разобран
// в конце ближайшего тика.
func (s *Simulation) AddEffect(creator ecs.Entity, effect effects.Effect, targets effects.Targets) {
	s.Queue.Add(creator, effect, targets)
}

// RunEffectsQueue разбирает очередь вне тика (для сценариев и тестов).
func (s *Simulation) RunEffectsQueue(ctx context.Context) int {
	return effects.RunEffectsQueue(ctx, s.env)
}

// Submit применяет ввод игрока. Работает только в AwaitingInput.
// Возвращает true, если ввод засчитан как ход (AwaitingInput -> PlayerTurn).
// Недейственный ввод ничего не меняет.
func (s *Simulation) Submit(ctx context.Context, cmd domain.Command) bool {
	if !s.Scheduler.Is(scheduler.AwaitingInput) {
		return false
	}

	var acted bool
	switch cmd.Action {
	case domain.ActionMove:
		acted = systems.TryMovePlayer(s.env, cmd.DX, cmd.DY)
	case domain.ActionWait:
		acted = systems.SkipTurn(s.env)
	case domain.ActionPickup:
		acted = systems.PickupItem(s.env)
	case domain.ActionUse:
		acted = systems.UseItem(s.env, cmd.Item, cmd.Target)
	case domain.ActionDrop:
		acted = systems.DropItem(s.env, cmd.Item)
	case domain.ActionDescend:
		if systems.CanDescend(s.env) {
			s.Descend()
		}
		return false
	default:
		return false
	}

	if !acted {
		return false
	}
	if err := s.Scheduler.BeginPlayerTurn(ctx); err != nil {
		s.logger().WithError(err).Error("Failed to begin player turn")
		return false
	}
	return true
}

// Tick выполняет один тик текущего состояния. В AwaitingInput и GameOver
// ничего не происходит.
func (s *Simulation) Tick(ctx context.Context) error {
	state := s.Scheduler.State()

	var d *systems.Dispatcher
	switch state {
	case scheduler.PlayerTurn:
		d = s.playerTurn
	case scheduler.MonsterTurn:
		d = s.monsterTurn
	default:
		return nil
	}

	if err := d.Run(ctx); err != nil {
		return fmt.Errorf("tick %d (%s): %w", s.tick, state, err)
	}

	// Разбор очереди - всегда барьер и всегда один.
	effects.RunEffectsQueue(ctx, s.env)
	s.tick++

	if s.opts.Strict {
		if err := s.CheckIndexInvariant(); err != nil {
			panic(fmt.Sprintf("tick %d: %v", s.tick, err))
		}
	}
	if s.metrics != nil {
		s.metrics.TickCompleted(ctx, state.String())
	}

	if s.playerDead {
		return s.Scheduler.EndGame(ctx)
	}
	return s.Scheduler.Advance(ctx)
}

// Advance = Submit + тики, пока планировщик снова не ждёт ввода
// (или игра не окончена). Возвращает false, если ввод не действенный.
func (s *Simulation) Advance(ctx context.Context, cmd domain.Command) (bool, error) {
	if !s.Submit(ctx, cmd) {
		return false, nil
	}
	// PlayerTurn и MonsterTurn - ровно два тика.
	for i := 0; i < 2; i++ {
		if err := s.Tick(ctx); err != nil {
			return true, err
		}
		if st := s.Scheduler.State(); st == scheduler.AwaitingInput || st == scheduler.GameOver {
			break
		}
	}
	return true, nil
}

// Descend строит следующий слой и переносит туда игрока с рюкзаком.
// Остальные сущности старого слоя удаляются.
func (s *Simulation) Descend() {
	player, ok := s.Player()
	if !ok {
		return
	}
	oldLayer := s.Map.Layer
	next := oldLayer + 1

	for _, e := range s.Store.World.Entities() {
		if e == player {
			continue
		}
		if pack, carried := s.Store.Backpacks.Get(e); carried && pack.Owner == player {
			continue
		}
		_ = s.Store.World.Delete(e)
	}
	s.Queue.Reset()
	s.Layers.Drop(oldLayer)

	lvl := dungeon.Generate(next, dungeon.LayerSeed(s.opts.Seed, next), s.opts.Dungeon)
	s.enterLevel(lvl.Map)

	s.Store.Positions.Insert(player, lvl.Start)
	s.Store.Views.Mutate(player, func(v *domain.FieldOfView) { v.IsDirty = true })
	// На новом уровне игрок немного восстанавливается.
	s.Store.Stats.Mutate(player, func(st *domain.CombatStats) {
		st.HP = max(st.HP, st.MaxHP/2)
	})
	dungeon.Populate(s.Store, lvl)
	s.RebuildIndex()
	systems.Visibility(s.env)

	s.Log.Info(fmt.Sprintf("You descend to depth %d.", next))
	s.logger().WithFields(logrus.Fields{"from": oldLayer, "to": next}).Info("Player descended")
}

// Restart начинает новую игру после GameOver с тем же мастер-зерном.
func (s *Simulation) Restart(ctx context.Context) error {
	if !s.Scheduler.Is(scheduler.GameOver) {
		return nil
	}
	const firstLayer = 1
	s.Layers.Drop(s.Map.Layer)
	s.Store.World.Clear()
	s.Queue.Reset()
	s.playerDead = false

	lvl := dungeon.Generate(firstLayer, dungeon.LayerSeed(s.opts.Seed, firstLayer), s.opts.Dungeon)
	s.enterLevel(lvl.Map)
	dungeon.SpawnPlayer(s.Store, lvl.Start, s.opts.PlayerVision)
	dungeon.Populate(s.Store, lvl)
	s.RebuildIndex()
	systems.Visibility(s.env)
	s.Log.Info("A new adventure begins.")

	return s.Scheduler.Restart(ctx)
}

// LoadLevel заменяет всё состояние восстановленным: мир очищается, populate
// заполняет хранилище, индекс пересоздаётся по размеру m и заполняется из Position.
func (s *Simulation) LoadLevel(m *domain.Map, tick uint64, state scheduler.TurnState, populate func(*domain.Store) error) error {
	s.Layers.Drop(s.Map.Layer)
	s.Store.World.Clear()
	s.Queue.Reset()

	s.enterLevel(m)
	if err := populate(s.Store); err != nil {
		return fmt.Errorf("populate store: %w", err)
	}
	if _, ok := s.Player(); !ok {
		return errors.New("restored state has no player")
	}
	s.RebuildIndex()
	for _, e := range s.Store.Views.Entities() {
		s.Store.Views.Mutate(e, func(v *domain.FieldOfView) { v.IsDirty = true })
	}
	systems.Visibility(s.env)

	s.tick = tick
	s.playerDead = state == scheduler.GameOver
	s.Scheduler = scheduler.NewAt(state)
	return nil
}

// RebuildIndex очищает индекс и заново вносит каждую сущность с Position
// на активном слое.
func (s *Simulation) RebuildIndex() {
	s.Index.Resize(s.Map.TileCount())
	for _, e := range s.Store.Positions.Entities() {
		pos, ok := s.Store.Positions.Get(e)
		if !ok || pos.Layer != s.Map.Layer {
			continue
		}
		if idx, in := s.Map.IndexOf(pos); in {
			s.Index.Insert(e, idx)
		}
	}
}

// CheckIndexInvariant проверяет, что каждая сущность с Position на активном
// слое лежит ровно в своей клетке индекса, а в индексе нет удалённых
// и перемещённых сущностей. Все нарушения возвращаются одной ошибкой.
func (s *Simulation) CheckIndexInvariant() error {
	var errs []error
	layer := s.Map.Layer

	for _, e := range s.Store.Positions.Entities() {
		pos, ok := s.Store.Positions.Get(e)
		if !ok || pos.Layer != layer {
			continue
		}
		idx, in := s.Map.IndexOf(pos)
		if !in {
			errs = append(errs, fmt.Errorf("%s: position %+v outside the map", e, pos))
			continue
		}
		if !s.Index.Contains(e, idx) {
			errs = append(errs, fmt.Errorf("%s: missing from index tile %d", e, idx))
		}
	}

	s.Index.Each(func(idx int, occupants []ecs.Entity) {
		for _, e := range occupants {
			if !s.Store.World.Alive(e) {
				errs = append(errs, fmt.Errorf("%s: deleted entity in index tile %d", e, idx))
				continue
			}
			pos, ok := s.Store.Positions.Get(e)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: in index tile %d without Position", e, idx))
				continue
			}
			if at, in := s.Map.IndexOf(pos); !in || at != idx || pos.Layer != layer {
				errs = append(errs, fmt.Errorf("%s: in index tile %d but positioned at %+v", e, idx, pos))
			}
		}
	})

	return errors.Join(errs...)
}
