package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse - снимок видимой части мира для клиента.
// Отправляется после каждого завершённого тика и при подключении.
type ServerResponse struct {
	// Type: "UPDATE" или "ERROR".
	Type string `json:"type"`

	// Tick - номер тика симуляции.
	Tick uint64 `json:"tick"`

	// State - текущее состояние планировщика ходов (AWAITING_INPUT, GAME_OVER, ...).
	State string `json:"state"`

	MyEntityID string `json:"myEntityId,omitempty"`

	Grid *GridMeta `json:"grid,omitempty"`

	// Map - видимые и исследованные клетки.
	Map []TileView `json:"map,omitempty"`

	// Entities - видимые сущности.
	Entities []EntityView `json:"entities,omitempty"`

	// Inventory - предметы в рюкзаке игрока.
	Inventory []ItemView `json:"inventory,omitempty"`

	// Logs - новые сообщения журнала с прошлого ответа.
	Logs []LogEntry `json:"logs,omitempty"`

	Error string `json:"error,omitempty"`
}

type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
	Depth  int `json:"depth"`
}

// TileView - одна клетка карты.
type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	Type string `json:"type"`

	// IsVisible - клетка в текущем поле зрения игрока.
	IsVisible bool `json:"isVisible"`

	// IsExplored - клетка когда-либо была увидена ("туман войны").
	IsExplored bool `json:"isExplored"`

	Bloodstain bool `json:"bloodstain,omitempty"`
}

// EntityView - видимая сущность.
type EntityView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"` // PLAYER, MONSTER, ITEM, PARTICLE
	Name  string `json:"name,omitempty"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Char  string `json:"char"`
	Color string `json:"color"`

	Stats *StatsView `json:"stats,omitempty"`

	// Confused - сколько ходов монстр ещё пропустит.
	Confused int32 `json:"confused,omitempty"`
}

type StatsView struct {
	HP      int `json:"hp"`
	MaxHP   int `json:"maxHp"`
	Power   int `json:"power"`
	Defense int `json:"defense"`
}

// LogEntry - запись игрового журнала.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// ItemView - предмет в инвентаре.
type ItemView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Char   string `json:"char"`
	Color  string `json:"color"`
	Ranged int    `json:"ranged,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - корневой объект для всех сообщений от клиента.
type ClientCommand struct {
	// Action: INIT, MOVE, WAIT, PICKUP, USE, DROP, DESCEND.
	Action string `json:"action"`

	// Payload зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload для MOVE.
type DirectionPayload struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

// ItemPayload для DROP и USE. X/Y задаются для предметов дальнего действия.
type ItemPayload struct {
	ItemID string `json:"itemId"`
	X      *int   `json:"x,omitempty"`
	Y      *int   `json:"y,omitempty"`
}
