package enums

import "strings"

type TileType uint8

const (
	TileWall TileType = iota
	TileFloor
	TileDownStairs
)

var tileTypeToString = map[TileType]string{
	TileWall:       "WALL",
	TileFloor:      "FLOOR",
	TileDownStairs: "DOWN_STAIRS",
}

func (t TileType) String() string {
	if val, ok := tileTypeToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

func ParseTileType(s string) TileType {
	switch strings.ToUpper(s) {
	case "FLOOR":
		return TileFloor
	case "DOWN_STAIRS":
		return TileDownStairs
	default:
		return TileWall
	}
}

// RenderOrder определяет порядок отрисовки: меньшие значения рисуются поверх.
type RenderOrder uint8

const (
	RenderOrderParticle RenderOrder = iota
	RenderOrderActor
	RenderOrderItem
	RenderOrderProp
)
