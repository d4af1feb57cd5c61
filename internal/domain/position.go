package domain

import "math"

// DistanceTo возвращает евклидово расстояние (слой не учитывается).
func (p Position) DistanceTo(other Position) float64 {
	return math.Hypot(float64(p.X-other.X), float64(p.Y-other.Y))
}

// DistanceSquaredTo возвращает квадрат расстояния для сравнения без корней.
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// IsAdjacent возвращает true для соседней клетки (включая диагональ).
func (p Position) IsAdjacent(other Position) bool {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Shift возвращает новую позицию со смещением на том же слое.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy, Layer: p.Layer}
}

// DirectionTo возвращает знаки шага по X и Y к цели.
func (p Position) DirectionTo(other Position) (int, int) {
	return sign(other.X - p.X), sign(other.Y - p.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
