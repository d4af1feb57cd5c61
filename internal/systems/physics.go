package systems

import (
	"cognitive-sim/internal/domain"
)

// HasLineOfSight проверяет прямую видимость между двумя точками по Брезенхэму.
// Стартовая и конечная клетки препятствием не считаются.
func HasLineOfSight(m *domain.Map, p1, p2 domain.Position) bool {
	if p1.X == p2.X && p1.Y == p2.Y {
		return true
	}

	x0, y0 := p1.X, p1.Y
	dx := abs(p2.X - x0)
	dy := abs(p2.Y - y0)
	sx, sy := p1.DirectionTo(p2)
	err := dx - dy

	for {
		isEnd := x0 == p2.X && y0 == p2.Y
		isStart := x0 == p1.X && y0 == p1.Y
		if !isStart && !isEnd && m.Opaque(x0, y0) {
			return false
		}
		if isEnd {
			return true
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
