package systems

import (
	"testing"

	"cognitive-sim/internal/core/types/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPath(t *testing.T) {
	t.Run("straight line", func(t *testing.T) {
		m := openMap(10, 3)
		path := FindPath(m.Index(0, 1), m.Index(4, 1), m)
		require.True(t, path.Success)
		assert.Equal(t, []int{m.Index(0, 1), m.Index(1, 1), m.Index(2, 1), m.Index(3, 1), m.Index(4, 1)}, path.Steps)
	})

	t.Run("around a wall", func(t *testing.T) {
		m := openMap(5, 5)
		m.SetTile(2, 1, enums.TileWall)
		m.SetTile(2, 2, enums.TileWall)
		m.SetTile(2, 3, enums.TileWall)

		path := FindPath(m.Index(0, 2), m.Index(4, 2), m)
		require.True(t, path.Success)
		for _, idx := range path.Steps {
			assert.True(t, m.IsPassable(idx))
		}
		assert.Equal(t, m.Index(4, 2), path.Steps[len(path.Steps)-1])
	})

	t.Run("goal may be blocked", func(t *testing.T) {
		m := openMap(5, 1)
		m.SetTile(4, 0, enums.TileWall)
		path := FindPath(0, 4, m)
		assert.True(t, path.Success)
	})

	t.Run("unreachable", func(t *testing.T) {
		m := openMap(5, 5)
		for y := 0; y < 5; y++ {
			m.SetTile(2, y, enums.TileWall)
		}
		assert.False(t, FindPath(m.Index(0, 0), m.Index(4, 4), m).Success)
	})

	t.Run("out of range", func(t *testing.T) {
		m := openMap(3, 3)
		assert.False(t, FindPath(-1, 4, m).Success)
		assert.False(t, FindPath(0, 9, m).Success)
	})

	t.Run("start equals goal", func(t *testing.T) {
		m := openMap(3, 3)
		assert.Equal(t, []int{4}, FindPath(4, 4, m).Steps)
	})
}
