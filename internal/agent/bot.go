package agent

import (
	"context"
	"encoding/json"
	"sort"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/systems"
	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// lowHealth - доля MaxHP, ниже которой бот пьёт зелье.
const lowHealth = 0.4

// Commander принимает команды бота (engine.Instance).
type Commander interface {
	Enqueue(cmd api.ClientCommand) bool
}

// Bot - "игрок-компьютер" (headless agent). Он видит ровно то, что видит
// клиент: снимки мира из хаба. По каждому снимку в AwaitingInput бот
// принимает решение и отправляет одну команду.
//
// Жизненный цикл:
//  1. NewBot - подписка в хабе (Inbox).
//  2. Run - слушает Inbox до отмены ctx, конца игры или MaxTurns.
//  3. Decide - чистая функция: снимок -> команда.
type Bot struct {
	SessionID string
	Inbox     <-chan api.ServerResponse
	Target    Commander

	// MaxTurns - сколько команд отправить (0 - без ограничения).
	MaxTurns int
	turns    int
	log      *logrus.Entry
}

func NewBot(sessionID string, inbox <-chan api.ServerResponse, target Commander) *Bot {
	return &Bot{
		SessionID: sessionID,
		Inbox:     inbox,
		Target:    target,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"session":   sessionID,
		}),
	}
}

// Result - чем закончился прогон бота.
type Result struct {
	Turns    int
	LastTick uint64
	Depth    int
	Dead     bool
}

// Run запускает цикл жизни бота. Первый снимок бот запрашивает сам (INIT).
func (b *Bot) Run(ctx context.Context) Result {
	var res Result
	b.Target.Enqueue(api.ClientCommand{Action: "INIT"})

	for {
		select {
		case <-ctx.Done():
			return res
		case state, ok := <-b.Inbox:
			if !ok {
				return res
			}
			res.LastTick = state.Tick
			if state.Grid != nil {
				res.Depth = state.Grid.Depth
			}

			switch state.State {
			case "GAME_OVER":
				res.Dead = true
				b.log.WithField("tick", state.Tick).Info("Bot died")
				return res
			case "AWAITING_INPUT":
			default:
				continue
			}

			if b.MaxTurns > 0 && b.turns >= b.MaxTurns {
				return res
			}
			cmd := Decide(state)
			b.log.WithField("action", cmd.Action).Debug("Bot decided")
			if b.Target.Enqueue(cmd) {
				b.turns++
				res.Turns = b.turns
			}
		}
	}
}

// view - локальная картина мира, собранная из снимка.
type view struct {
	state  api.ServerResponse
	width  int
	height int
	known  []bool // исследованная проходимая клетка
	seen   []bool // исследованная клетка любого типа
	block  []bool // монстр в клетке
	stairs int
	me     api.EntityView
	hasMe  bool
}

func (v *view) Dimensions() (int, int) { return v.width, v.height }

func (v *view) IsPassable(idx int) bool {
	return v.known[idx] && !v.block[idx]
}

func (v *view) index(x, y int) int { return y*v.width + x }

func (v *view) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.width && y < v.height
}

func newView(state api.ServerResponse) *view {
	v := &view{state: state, stairs: -1}
	if state.Grid != nil {
		v.width, v.height = state.Grid.Width, state.Grid.Height
	}
	n := v.width * v.height
	v.known = make([]bool, n)
	v.seen = make([]bool, n)
	v.block = make([]bool, n)

	// Всё, что бот не видел, считается стеной.
	for _, t := range state.Map {
		if !v.inBounds(t.X, t.Y) {
			continue
		}
		idx := v.index(t.X, t.Y)
		v.seen[idx] = true
		tt := enums.ParseTileType(t.Type)
		if tt != enums.TileWall {
			v.known[idx] = true
		}
		if tt == enums.TileDownStairs {
			v.stairs = idx
		}
	}
	for _, e := range state.Entities {
		if e.ID == state.MyEntityID {
			v.me, v.hasMe = e, true
			continue
		}
		if e.Kind == enums.EntityKindMonster.String() && v.inBounds(e.X, e.Y) {
			v.block[v.index(e.X, e.Y)] = true
		}
	}
	return v
}

// Decide выбирает команду по снимку. Приоритеты: зелье при низком HP,
// удар по соседнему монстру, сближение с видимым монстром, подбор предмета,
// спуск, путь к предмету, к лестнице, к границе исследованного.
func Decide(state api.ServerResponse) api.ClientCommand {
	v := newView(state)
	if !v.hasMe || v.width == 0 {
		return api.ClientCommand{Action: "WAIT"}
	}
	me := v.me

	if me.Stats != nil && float64(me.Stats.HP) < lowHealth*float64(me.Stats.MaxHP) {
		for _, it := range state.Inventory {
			if it.Name == "Health Potion" {
				return command("USE", api.ItemPayload{ItemID: it.ID})
			}
		}
	}

	monsters := v.entities(enums.EntityKindMonster)
	for _, m := range monsters {
		if dx, dy := m.X-me.X, m.Y-me.Y; abs(dx) <= 1 && abs(dy) <= 1 {
			return move(dx, dy)
		}
	}
	for _, m := range monsters {
		if cmd, ok := v.stepTowards(m.X, m.Y); ok {
			return cmd
		}
	}

	items := v.entities(enums.EntityKindItem)
	for _, it := range items {
		if it.X == me.X && it.Y == me.Y {
			return api.ClientCommand{Action: "PICKUP"}
		}
	}
	if v.stairs == v.index(me.X, me.Y) {
		return api.ClientCommand{Action: "DESCEND"}
	}
	for _, it := range items {
		if cmd, ok := v.stepTowards(it.X, it.Y); ok {
			return cmd
		}
	}

	for _, idx := range v.frontier() {
		if cmd, ok := v.stepTowards(idx%v.width, idx/v.width); ok {
			return cmd
		}
	}
	if v.stairs >= 0 {
		if cmd, ok := v.stepTowards(v.stairs%v.width, v.stairs/v.width); ok {
			return cmd
		}
	}
	return api.ClientCommand{Action: "WAIT"}
}

// entities возвращает видимые сущности вида kind, ближние первыми.
func (v *view) entities(kind enums.EntityKind) []api.EntityView {
	var out []api.EntityView
	for _, e := range v.state.Entities {
		if e.Kind == kind.String() && e.ID != v.me.ID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return v.dist2(out[i].X, out[i].Y) < v.dist2(out[j].X, out[j].Y)
	})
	return out
}

// frontier - исследованные проходимые клетки рядом с неисследованными, ближние первыми.
func (v *view) frontier() []int {
	const maxCandidates = 8
	var out []int
	for idx, ok := range v.known {
		if !ok {
			continue
		}
		x, y := idx%v.width, idx/v.width
		if x == v.me.X && y == v.me.Y {
			continue
		}
		if v.touchesUnknown(x, y) {
			out = append(out, idx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return v.dist2(out[i]%v.width, out[i]/v.width) < v.dist2(out[j]%v.width, out[j]/v.width)
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

func (v *view) touchesUnknown(x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if v.inBounds(nx, ny) && !v.seen[v.index(nx, ny)] {
				return true
			}
		}
	}
	return false
}

func (v *view) stepTowards(x, y int) (api.ClientCommand, bool) {
	path := systems.FindPath(v.index(v.me.X, v.me.Y), v.index(x, y), v)
	if !path.Success || len(path.Steps) < 2 {
		return api.ClientCommand{}, false
	}
	next := path.Steps[1]
	return move(next%v.width-v.me.X, next/v.width-v.me.Y), true
}

func (v *view) dist2(x, y int) int {
	dx, dy := x-v.me.X, y-v.me.Y
	return dx*dx + dy*dy
}

func move(dx, dy int) api.ClientCommand {
	return command("MOVE", api.DirectionPayload{Dx: dx, Dy: dy})
}

func command(action string, payload any) api.ClientCommand {
	raw, err := json.Marshal(payload)
	if err != nil {
		return api.ClientCommand{Action: "WAIT"}
	}
	return api.ClientCommand{Action: action, Payload: raw}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
