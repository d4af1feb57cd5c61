// Package scheduler - машина состояний ходов.
//
//	AwaitingInput --input--> PlayerTurn --end_player_turn--> MonsterTurn
//	MonsterTurn --end_monster_turn--> AwaitingInput
//	* --game_over--> GameOver --restart--> AwaitingInput
//
// Разбор очереди эффектов (EffectsDrain) не хранится как состояние: он
// выполняется в конце каждого тика, пока планировщик стоит в PlayerTurn
// или MonsterTurn, и предшествует переходу.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"cognitive-sim/pkg/logger"
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

type TurnState uint8

const (
	AwaitingInput TurnState = iota
	PlayerTurn
	MonsterTurn
	EffectsDrain
	GameOver
)

var stateToString = map[TurnState]string{
	AwaitingInput: "AWAITING_INPUT",
	PlayerTurn:    "PLAYER_TURN",
	MonsterTurn:   "MONSTER_TURN",
	EffectsDrain:  "EFFECTS_DRAIN",
	GameOver:      "GAME_OVER",
}

var stringToState = map[string]TurnState{
	"AWAITING_INPUT": AwaitingInput,
	"PLAYER_TURN":    PlayerTurn,
	"MONSTER_TURN":   MonsterTurn,
	"EFFECTS_DRAIN":  EffectsDrain,
	"GAME_OVER":      GameOver,
}

func (s TurnState) String() string {
	if v, ok := stateToString[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// ParseTurnState разбирает имя состояния (для снапшотов).
func ParseTurnState(s string) (TurnState, bool) {
	v, ok := stringToState[s]
	return v, ok
}

const (
	eventInput          = "input"
	eventEndPlayerTurn  = "end_player_turn"
	eventEndMonsterTurn = "end_monster_turn"
	eventGameOver       = "game_over"
	eventRestart        = "restart"
)

// Scheduler - единственный владелец TurnState.
type Scheduler struct {
	mu  sync.Mutex
	fsm *fsm.FSM
}

func New() *Scheduler {
	return NewAt(AwaitingInput)
}

// NewAt создаёт планировщик в заданном состоянии (загрузка сохранения).
func NewAt(initial TurnState) *Scheduler {
	if initial == EffectsDrain {
		initial = AwaitingInput
	}
	s := &Scheduler{}
	s.fsm = fsm.NewFSM(
		initial.String(),
		fsm.Events{
			{Name: eventInput, Src: []string{AwaitingInput.String()}, Dst: PlayerTurn.String()},
			{Name: eventEndPlayerTurn, Src: []string{PlayerTurn.String()}, Dst: MonsterTurn.String()},
			{Name: eventEndMonsterTurn, Src: []string{MonsterTurn.String()}, Dst: AwaitingInput.String()},
			{
				Name: eventGameOver,
				Src:  []string{AwaitingInput.String(), PlayerTurn.String(), MonsterTurn.String()},
				Dst:  GameOver.String(),
			},
			{Name: eventRestart, Src: []string{GameOver.String()}, Dst: AwaitingInput.String()},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				logger.Log.WithFields(logrus.Fields{
					"component": "turn_scheduler",
					"event":     e.Event,
					"from":      e.Src,
					"to":        e.Dst,
				}).Debug("Turn state changed")
			},
		},
	)
	return s
}

// State возвращает текущее состояние.
func (s *Scheduler) State() TurnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, _ := ParseTurnState(s.fsm.Current())
	return st
}

func (s *Scheduler) Is(st TurnState) bool {
	return s.State() == st
}

// BeginPlayerTurn фиксирует принятый ввод: AwaitingInput -> PlayerTurn.
func (s *Scheduler) BeginPlayerTurn(ctx context.Context) error {
	return s.fire(ctx, eventInput)
}

// Advance выполняет безусловный переход после тика:
// PlayerTurn -> MonsterTurn, MonsterTurn -> AwaitingInput.
// В остальных состояниях ничего не делает.
func (s *Scheduler) Advance(ctx context.Context) error {
	switch s.State() {
	case PlayerTurn:
		return s.fire(ctx, eventEndPlayerTurn)
	case MonsterTurn:
		return s.fire(ctx, eventEndMonsterTurn)
	default:
		return nil
	}
}

func (s *Scheduler) EndGame(ctx context.Context) error {
	if s.Is(GameOver) {
		return nil
	}
	return s.fire(ctx, eventGameOver)
}

// Restart возвращает планировщик из GameOver к ожиданию ввода.
func (s *Scheduler) Restart(ctx context.Context) error {
	return s.fire(ctx, eventRestart)
}

func (s *Scheduler) fire(ctx context.Context, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fsm.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return nil
	}
	return err
}
