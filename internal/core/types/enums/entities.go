package enums

import "strings"

// EntityKind кодируется в EntityID и используется для логов и снапшотов.
type EntityKind uint8

const (
	EntityKindUnknown EntityKind = iota
	EntityKindPlayer
	EntityKindMonster
	EntityKindItem
	EntityKindParticle
	EntityKindProp
)

var entityKindToString = map[EntityKind]string{
	EntityKindPlayer:   "PLAYER",
	EntityKindMonster:  "MONSTER",
	EntityKindItem:     "ITEM",
	EntityKindParticle: "PARTICLE",
	EntityKindProp:     "PROP",
}

var entityKindStringToKind = map[string]EntityKind{
	"PLAYER":   EntityKindPlayer,
	"MONSTER":  EntityKindMonster,
	"ITEM":     EntityKindItem,
	"PARTICLE": EntityKindParticle,
	"PROP":     EntityKindProp,
}

// String возвращает строковое представление (для логов и дебага)
func (k EntityKind) String() string {
	if val, ok := entityKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityKind конвертирует строку в Enum (нужно для загрузки снапшотов и префабов)
func ParseEntityKind(s string) EntityKind {
	if val, ok := entityKindStringToKind[strings.ToUpper(s)]; ok {
		return val
	}
	return EntityKindUnknown
}
