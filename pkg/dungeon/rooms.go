package dungeon

import (
	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
)

// Rect - вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Contains - лежит ли клетка внутри пола комнаты (без стен).
func (r Rect) Contains(x, y int) bool {
	return x > r.X && x < r.X+r.W && y > r.Y && y < r.Y+r.H
}

func createRoom(m *domain.Map, room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			m.SetTile(x, y, enums.TileFloor)
		}
	}
}

func createHCorridor(m *domain.Map, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		m.SetTile(x, y, enums.TileFloor)
	}
}

func createVCorridor(m *domain.Map, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		m.SetTile(x, y, enums.TileFloor)
	}
}
