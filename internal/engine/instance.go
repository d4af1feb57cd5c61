package engine

import (
	"context"
	"errors"
	"fmt"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/engine/handlers"
	"cognitive-sim/internal/engine/handlers/actions"
	"cognitive-sim/internal/scheduler"
	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ErrUnknownAction - клиент прислал неизвестное действие.
var ErrUnknownAction = errors.New("unknown action")

// Publisher рассылает снимки мира подписчикам.
type Publisher interface {
	Broadcast(msg api.ServerResponse)
}

// Instance представляет собой одну запущенную игру: симуляцию и её игровой цикл.
// Все обращения к Simulation идут из горутины Run.
type Instance struct {
	ID  string
	Sim *Simulation

	// Каналы коммуникации
	CommandChan chan api.ClientCommand // Команды от игрока
	inspect     chan func(*Simulation) // Чтение состояния извне (debug, сохранения)

	Hub Publisher

	handlers map[domain.ActionType]handlers.HandlerFunc
}

func NewInstance(id string, sim *Simulation, hub Publisher) *Instance {
	i := &Instance{
		ID:          id,
		Sim:         sim,
		CommandChan: make(chan api.ClientCommand, 100),
		inspect:     make(chan func(*Simulation)),
		Hub:         hub,
		handlers:    make(map[domain.ActionType]handlers.HandlerFunc),
	}
	i.registerHandlers()
	return i
}

func (i *Instance) registerHandlers() {
	i.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	i.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	i.handlers[domain.ActionWait] = handlers.WithEmptyPayload(actions.HandleWait)
	i.handlers[domain.ActionPickup] = handlers.WithEmptyPayload(actions.HandlePickup)
	i.handlers[domain.ActionUse] = handlers.WithPayload(actions.HandleUse)
	i.handlers[domain.ActionDrop] = handlers.WithPayload(actions.HandleDrop)
	i.handlers[domain.ActionDescend] = handlers.WithEmptyPayload(actions.HandleDescend)
}

func (i *Instance) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component": "instance",
		"instance":  i.ID,
	})
}

// Enqueue передаёт команду в игровой цикл. При переполненной очереди команда
// отбрасывается.
func (i *Instance) Enqueue(cmd api.ClientCommand) bool {
	select {
	case i.CommandChan <- cmd:
		return true
	default:
		i.log().WithField("action", cmd.Action).Warn("Command queue full, command dropped")
		return false
	}
}

// Run запускает игровой цикл инстанса до отмены ctx.
func (i *Instance) Run(ctx context.Context) error {
	i.log().Info("Instance loop started")
	i.Publish()

	for {
		select {
		case <-ctx.Done():
			i.log().Info("Instance loop stopped")
			return ctx.Err()

		case cmd := <-i.CommandChan:
			if err := i.Execute(ctx, cmd); err != nil {
				i.log().WithError(err).WithField("action", cmd.Action).Warn("Command rejected")
			}
			i.Publish()

		case fn := <-i.inspect:
			fn(i.Sim)
		}
	}
}

// Inspect выполняет fn в горутине игрового цикла между командами и ждёт
// завершения. Run должен быть запущен.
func (i *Instance) Inspect(ctx context.Context, fn func(*Simulation)) error {
	done := make(chan struct{})
	wrapped := func(s *Simulation) {
		defer close(done)
		fn(s)
	}

	select {
	case i.inspect <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-done
	return nil
}

// Execute синхронно выполняет одну команду клиента: разбор, ход игрока
// и ответные тики. Ошибка означает некорректную команду; игровые отказы
// ("стена", "нечего поднять") попадают в журнал.
func (i *Instance) Execute(ctx context.Context, cmd api.ClientCommand) error {
	action := domain.ParseAction(cmd.Action)
	handler, ok := i.handlers[action]
	if !ok {
		i.Sim.Log.Error(fmt.Sprintf("Unknown command %q.", cmd.Action))
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	// В GameOver любая команда, кроме INIT, игнорируется; INIT начинает новую игру.
	if i.Sim.State() == scheduler.GameOver {
		if action == domain.ActionInit {
			return i.Sim.Restart(ctx)
		}
		return nil
	}

	player, _ := i.Sim.Player()
	hctx := handlers.Context{
		Store: i.Sim.Store,
		Map:   i.Sim.Map,
		Actor: player,
	}

	result, err := handler(hctx, cmd.Payload)
	if err != nil {
		i.Sim.Log.Error("Invalid command.")
		return fmt.Errorf("%s: %w", action, err)
	}
	if result.Msg != "" {
		i.Sim.Log.Add(result.Msg, result.MsgType)
	}
	if result.Command == nil {
		return nil
	}

	_, err = i.Sim.Advance(ctx, *result.Command)
	return err
}

// Publish рассылает текущий снимок мира.
func (i *Instance) Publish() {
	if i.Hub == nil {
		return
	}
	i.Hub.Broadcast(*i.Sim.BuildState())
}
