package systems

import (
	"testing"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"github.com/stretchr/testify/assert"
)

// openMap - карта без стен.
func openMap(w, h int) *domain.Map {
	m := domain.NewMap(w, h, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetTile(x, y, enums.TileFloor)
		}
	}
	return m
}

func TestHasLineOfSight(t *testing.T) {
	// . . . . .
	// . . # . .
	// . # # # .
	// . . # . .
	// . . . . .
	m := openMap(5, 5)
	for _, p := range [][2]int{{2, 1}, {1, 2}, {2, 2}, {3, 2}, {2, 3}} {
		m.SetTile(p[0], p[1], enums.TileWall)
	}

	tests := []struct {
		name string
		p1   domain.Position
		p2   domain.Position
		want bool
	}{
		{"Clear horizontal", domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 0}, true},
		{"Blocked horizontal", domain.Position{X: 0, Y: 2}, domain.Position{X: 4, Y: 2}, false},
		{"Clear diagonal", domain.Position{X: 0, Y: 0}, domain.Position{X: 1, Y: 1}, true},
		{"Blocked diagonal", domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 4}, false},
		{"Adjacent wall", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 2}, true},
		{"Behind wall", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 3}, false},
		{"Same point", domain.Position{X: 3, Y: 3}, domain.Position{X: 3, Y: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasLineOfSight(m, tt.p1, tt.p2))
		})
	}
}
