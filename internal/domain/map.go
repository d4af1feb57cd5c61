package domain

import (
	"cognitive-sim/internal/core/types/enums"
)

// Tile - статическое описание клетки.
type Tile struct {
	Type enums.TileType `json:"type"`
}

func (t Tile) IsWall() bool {
	return t.Type == enums.TileWall
}

// Map - один слой подземелья. Клетки хранятся построчно: idx = y*Width + x.
type Map struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Layer  int    `json:"layer"`
	Tiles  []Tile `json:"tiles"`

	Revealed []bool `json:"revealed"`
	Visible  []bool `json:"-"`

	// Bloodstains - клетки с пятнами крови (только для отрисовки).
	Bloodstains map[int]bool `json:"bloodstains"`
}

// NewMap создаёт карту, целиком залитую стенами.
func NewMap(width, height, layer int) *Map {
	n := width * height
	m := &Map{
		Width:       width,
		Height:      height,
		Layer:       layer,
		Tiles:       make([]Tile, n),
		Revealed:    make([]bool, n),
		Visible:     make([]bool, n),
		Bloodstains: make(map[int]bool),
	}
	return m
}

func (m *Map) TileCount() int {
	return m.Width * m.Height
}

func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

func (m *Map) Coords(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// IndexOf переводит позицию в индекс клетки. ok=false для позиций вне карты.
func (m *Map) IndexOf(p Position) (int, bool) {
	if !m.InBounds(p.X, p.Y) {
		return -1, false
	}
	return m.Index(p.X, p.Y), true
}

// PositionOf возвращает позицию клетки на слое этой карты.
func (m *Map) PositionOf(idx int) Position {
	x, y := m.Coords(idx)
	return Position{X: x, Y: y, Layer: m.Layer}
}

// Opaque - блокирует ли клетка взгляд. Выход за границы непрозрачен.
func (m *Map) Opaque(x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.Tiles[m.Index(x, y)].IsWall()
}

// IsPassable - можно ли пройти по клетке (без учёта сущностей).
func (m *Map) IsPassable(idx int) bool {
	if idx < 0 || idx >= len(m.Tiles) {
		return false
	}
	return !m.Tiles[idx].IsWall()
}

func (m *Map) TileType(idx int) enums.TileType {
	if idx < 0 || idx >= len(m.Tiles) {
		return enums.TileWall
	}
	return m.Tiles[idx].Type
}

func (m *Map) SetTile(x, y int, t enums.TileType) {
	if m.InBounds(x, y) {
		m.Tiles[m.Index(x, y)] = Tile{Type: t}
	}
}

// ClearVisible сбрасывает видимость перед пересчётом FOV игрока.
func (m *Map) ClearVisible() {
	if len(m.Visible) != len(m.Tiles) {
		m.Visible = make([]bool, len(m.Tiles))
		return
	}
	for i := range m.Visible {
		m.Visible[i] = false
	}
}

// TilesInRadius возвращает клетки карты в круге радиуса r вокруг idx.
func (m *Map) TilesInRadius(idx, r int) []int {
	cx, cy := m.Coords(idx)
	out := make([]int, 0, (2*r+1)*(2*r+1))
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !m.InBounds(x, y) {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				out = append(out, m.Index(x, y))
			}
		}
	}
	return out
}

// Dimensions реализует сетку для поиска пути.
func (m *Map) Dimensions() (int, int) {
	return m.Width, m.Height
}

// IsVisible - клетка в текущем поле зрения игрока.
func (m *Map) IsVisible(idx int) bool {
	return idx >= 0 && idx < len(m.Visible) && m.Visible[idx]
}

// IsRevealed - клетка когда-либо была увидена.
func (m *Map) IsRevealed(idx int) bool {
	return idx >= 0 && idx < len(m.Revealed) && m.Revealed[idx]
}

// Normalize восстанавливает служебные буферы после десериализации.
func (m *Map) Normalize() {
	n := len(m.Tiles)
	if len(m.Revealed) != n {
		revealed := make([]bool, n)
		copy(revealed, m.Revealed)
		m.Revealed = revealed
	}
	if len(m.Visible) != n {
		m.Visible = make([]bool, n)
	}
	if m.Bloodstains == nil {
		m.Bloodstains = make(map[int]bool)
	}
}
