package domain

import (
	"strings"

	"cognitive-sim/internal/ecs"
)

// ActionType - внутренний идентификатор действия игрока
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionMove
	ActionWait
	ActionPickup
	ActionUse
	ActionDrop
	ActionDescend
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":    ActionInit,
	"MOVE":    ActionMove,
	"WAIT":    ActionWait,
	"PICKUP":  ActionPickup,
	"USE":     ActionUse,
	"DROP":    ActionDrop,
	"DESCEND": ActionDescend,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:    "INIT",
	ActionMove:    "MOVE",
	ActionWait:    "WAIT",
	ActionPickup:  "PICKUP",
	ActionUse:     "USE",
	ActionDrop:    "DROP",
	ActionDescend: "DESCEND",
}

// ParseAction конвертирует строку из JSON в ActionType (без учёта регистра)
func ParseAction(s string) ActionType {
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// Command - разобранный ввод игрока.
type Command struct {
	Action ActionType
	DX, DY int
	Item   ecs.Entity
	Target int // индекс клетки, -1 если не задан
}
