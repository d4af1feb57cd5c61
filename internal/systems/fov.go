package systems

import (
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/effects"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Мультипликаторы для трансформации координат в 8 октантов
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// VisibleTiles возвращает множество индексов клеток, видимых из origin.
// Recursive shadowcasting; стены видны, но дальше них взгляд не проходит.
func VisibleTiles(m *domain.Map, origin domain.Position, radius int) map[int]bool {
	visible := make(map[int]bool)
	if radius <= 0 || !m.InBounds(origin.X, origin.Y) {
		return visible
	}

	// Центр всегда виден
	visible[m.Index(origin.X, origin.Y)] = true

	for i := 0; i < 8; i++ {
		castLight(m, origin.X, origin.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], visible)
	}
	return visible
}

func castLight(m *domain.Map, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, visible map[int]bool) {
	if start < end {
		return
	}

	radiusSq := float64(radius * radius)

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			X := cx + dx*xx + dy*xy
			Y := cy + dx*yx + dy*yy

			if m.InBounds(X, Y) && float64(dx*dx+dy*dy) < radiusSq {
				visible[m.Index(X, Y)] = true
			}

			if blocked {
				if m.Opaque(X, Y) {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if m.Opaque(X, Y) && j < radius {
				blocked = true
				castLight(m, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, visible)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// Visibility пересчитывает FieldOfView, помеченные IsDirty.
// Для игрока заодно обновляет видимость и исследованность клеток карты.
func Visibility(env *effects.Env) {
	s := env.Store
	for _, e := range s.Views.Entities() {
		view, ok := s.Views.Get(e)
		if !ok || (!view.IsDirty && view.Visible != nil) {
			continue
		}
		pos, ok := s.Positions.Get(e)
		if !ok || pos.Layer != env.Map.Layer {
			continue
		}

		tiles := VisibleTiles(env.Map, pos, view.Radius)
		s.Views.Mutate(e, func(v *domain.FieldOfView) {
			v.Visible = tiles
			v.IsDirty = false
		})

		if s.Players.Has(e) {
			env.Map.ClearVisible()
			for idx := range tiles {
				env.Map.Visible[idx] = true
				env.Map.Revealed[idx] = true
			}
			logger.Log.WithFields(logrus.Fields{
				"component":     "fov_system",
				"observer_pos":  pos,
				"visible_tiles": len(tiles),
			}).Debug("Player FOV recalculated")
		}
	}
}
