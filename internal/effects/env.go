package effects

import (
	"context"
	"time"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/spatial"
)

// Journal - игровой журнал, куда попадают видимые игроку сообщения.
type Journal interface {
	Info(text string)
	Combat(text string)
	Error(text string)
}

// Recorder получает телеметрию разбора очереди.
type Recorder interface {
	EffectResolved(ctx context.Context, kind Kind)
	EntityDeleted(ctx context.Context, kind string)
	DrainCompleted(ctx context.Context, effects int, elapsed time.Duration)
}

// Env - всё, что нужно обработчикам: хранилище, активная карта,
// её пространственный индекс и сама очередь.
type Env struct {
	Store   *domain.Store
	Map     *domain.Map
	Spatial *spatial.Index
	Queue   *Queue

	Journal Journal
	Metrics Recorder

	// DedupeTargets - применять эффект к сущности не более одного раза,
	// даже если она попала в цели несколько раз (перекрытие клеток, дубли в списке).
	DedupeTargets bool

	// OnPlayerDeath вызывается вместо удаления, когда погибает игрок.
	OnPlayerDeath func(player ecs.Entity)

	// ParticleLifespanMs - время жизни частиц, которые порождают сами обработчики.
	ParticleLifespanMs float32
}

type nopJournal struct{}

func (nopJournal) Info(string)   {}
func (nopJournal) Combat(string) {}
func (nopJournal) Error(string)  {}

type nopRecorder struct{}

func (nopRecorder) EffectResolved(context.Context, Kind)               {}
func (nopRecorder) EntityDeleted(context.Context, string)              {}
func (nopRecorder) DrainCompleted(context.Context, int, time.Duration) {}

// Log возвращает журнал; без журнала сообщения отбрасываются.
func (env *Env) Log() Journal {
	if env.Journal == nil {
		return nopJournal{}
	}
	return env.Journal
}

func (env *Env) metrics() Recorder {
	if env.Metrics == nil {
		return nopRecorder{}
	}
	return env.Metrics
}

func (env *Env) particleLifespan() float32 {
	if env.ParticleLifespanMs <= 0 {
		return 200
	}
	return env.ParticleLifespanMs
}

// tileOf возвращает клетку сущности на активной карте.
func (env *Env) tileOf(e ecs.Entity) (int, bool) {
	pos, ok := env.Store.Positions.Get(e)
	if !ok || pos.Layer != env.Map.Layer {
		return -1, false
	}
	return env.Map.IndexOf(pos)
}
