package systems

import (
	"testing"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleTiles(t *testing.T) {
	m := openMap(11, 11)
	// Вертикальная стена справа от наблюдателя.
	for y := 0; y < 11; y++ {
		m.SetTile(7, y, enums.TileWall)
	}
	origin := domain.Position{X: 5, Y: 5}

	visible := VisibleTiles(m, origin, 8)

	assert.True(t, visible[m.Index(5, 5)], "origin is visible")
	assert.True(t, visible[m.Index(6, 5)])
	assert.True(t, visible[m.Index(7, 5)], "the wall itself is visible")
	assert.False(t, visible[m.Index(9, 5)], "tiles behind the wall are hidden")
	assert.True(t, visible[m.Index(1, 5)])
}

func TestVisibleTiles_Blind(t *testing.T) {
	m := openMap(5, 5)
	assert.Empty(t, VisibleTiles(m, domain.Position{X: 2, Y: 2}, 0))
	assert.Empty(t, VisibleTiles(m, domain.Position{X: 20, Y: 2}, 5))
}

func TestVisibility_RecomputesOnlyDirty(t *testing.T) {
	f := newFixture(t, 10, 10)
	player := f.player(t, domain.Position{X: 5, Y: 5})

	Visibility(f.env)
	view, ok := f.env.Store.Views.Get(player)
	require.True(t, ok)
	assert.False(t, view.IsDirty)
	assert.True(t, view.Sees(f.env.Map.Index(5, 5)))
	assert.True(t, f.env.Map.Revealed[f.env.Map.Index(6, 5)])

	// Перемещаем без пометки dirty: кэш не трогается.
	f.env.Store.Positions.Insert(player, domain.Position{X: 0, Y: 0})
	Visibility(f.env)
	view, _ = f.env.Store.Views.Get(player)
	assert.True(t, view.Sees(f.env.Map.Index(5, 5)))

	f.env.Store.Views.Mutate(player, func(v *domain.FieldOfView) { v.IsDirty = true })
	Visibility(f.env)
	view, _ = f.env.Store.Views.Get(player)
	assert.True(t, view.Sees(f.env.Map.Index(0, 0)))
	assert.True(t, f.env.Map.Visible[f.env.Map.Index(0, 0)])
}
