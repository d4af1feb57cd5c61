package spatial

import (
	"testing"

	"cognitive-sim/internal/core/types"
	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ent(i uint32) ecs.Entity {
	return types.PackEntityID(0, enums.EntityKindMonster, 1, i)
}

func TestIndex_InsertIsIdempotent(t *testing.T) {
	s := NewIndex(0, 100, true)
	s.Insert(ent(1), 42)
	s.Insert(ent(1), 42)
	s.Insert(ent(2), 42)

	assert.Equal(t, []ecs.Entity{ent(1), ent(2)}, s.OccupantsAt(42))
	assert.Equal(t, 2, s.Len())
}

func TestIndex_RemoveAbsentIsSilent(t *testing.T) {
	s := NewIndex(0, 10, true)
	assert.NotPanics(t, func() { s.Remove(ent(7), 3) })

	s.Insert(ent(1), 3)
	s.Remove(ent(1), 3)
	assert.Empty(t, s.OccupantsAt(3))
}

func TestIndex_MoveEntity(t *testing.T) {
	s := NewIndex(0, 10, true)
	s.Insert(ent(1), 2)
	s.MoveEntity(ent(1), 2, 3)

	assert.False(t, s.Contains(ent(1), 2))
	assert.True(t, s.Contains(ent(1), 3))

	s.MoveEntity(ent(1), 3, 3)
	assert.Equal(t, 1, s.Len(), "move onto the same tile keeps a single entry")
}

func TestIndex_OccupantsAtIsSnapshot(t *testing.T) {
	s := NewIndex(0, 10, true)
	s.Insert(ent(1), 5)
	s.Insert(ent(2), 5)

	snap := s.OccupantsAt(5)
	s.Remove(ent(1), 5)
	s.Insert(ent(3), 5)

	assert.Equal(t, []ecs.Entity{ent(1), ent(2)}, snap)
	assert.Equal(t, []ecs.Entity{ent(2), ent(3)}, s.OccupantsAt(5))
}

func TestIndex_ForEachOccupantAllowsMutation(t *testing.T) {
	s := NewIndex(0, 10, true)
	s.Insert(ent(1), 5)
	s.Insert(ent(2), 5)

	var visited []ecs.Entity
	s.ForEachOccupant(5, func(e ecs.Entity) {
		visited = append(visited, e)
		s.Remove(e, 5)
	})
	assert.Equal(t, []ecs.Entity{ent(1), ent(2)}, visited)
	assert.Equal(t, 0, s.Len())
}

func TestIndex_Resize(t *testing.T) {
	s := NewIndex(0, 10, true)
	s.Insert(ent(1), 9)
	s.Resize(20)

	assert.Equal(t, 20, s.TileCount())
	assert.Equal(t, 0, s.Len(), "resize clears entries")
	assert.NotPanics(t, func() { s.Insert(ent(1), 19) })
}

func TestIndex_OutOfBounds(t *testing.T) {
	t.Run("strict panics", func(t *testing.T) {
		s := NewIndex(0, 10, true)
		assert.Panics(t, func() { s.Insert(ent(1), 10) })
		assert.Panics(t, func() { s.Remove(ent(1), -1) })
		assert.Panics(t, func() { s.OccupantsAt(100) })
	})
	t.Run("release ignores", func(t *testing.T) {
		s := NewIndex(0, 10, false)
		assert.NotPanics(t, func() {
			s.Insert(ent(1), 10)
			s.MoveEntity(ent(1), 0, 11)
		})
		assert.Nil(t, s.OccupantsAt(10))
		assert.Equal(t, 0, s.Len())
	})
}

func TestIndex_Each(t *testing.T) {
	s := NewIndex(0, 10, true)
	s.Insert(ent(1), 7)
	s.Insert(ent(2), 1)

	var tiles []int
	s.Each(func(idx int, occ []ecs.Entity) {
		tiles = append(tiles, idx)
		require.NotEmpty(t, occ)
	})
	assert.Equal(t, []int{1, 7}, tiles)
}

func TestLayers_Establish(t *testing.T) {
	l := NewLayers(true)
	first := l.Establish(0, 10)
	first.Insert(ent(1), 3)

	again := l.Establish(0, 25)
	assert.Same(t, first, again)
	assert.Equal(t, 25, again.TileCount())
	assert.Equal(t, 0, again.Len())

	assert.Nil(t, l.Layer(1))
	l.Drop(0)
	assert.Nil(t, l.Layer(0))
}
