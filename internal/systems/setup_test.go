package systems

import (
	"os"
	"testing"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
	"cognitive-sim/internal/effects"
	"cognitive-sim/internal/gamelog"
	"cognitive-sim/internal/spatial"
	"cognitive-sim/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitWith("warn", "text", os.Stderr)
	os.Exit(m.Run())
}

type fixture struct {
	env *effects.Env
	log *gamelog.Log
}

func newFixture(t *testing.T, w, h int) *fixture {
	t.Helper()
	m := openMap(w, h)
	log := gamelog.New("test")
	return &fixture{
		env: &effects.Env{
			Store:   domain.NewStore(0),
			Map:     m,
			Spatial: spatial.NewIndex(0, m.TileCount(), true),
			Queue:   effects.NewQueue(),
			Journal: log,
		},
		log: log,
	}
}

func (f *fixture) place(t *testing.T, e ecs.Entity, pos domain.Position) {
	t.Helper()
	idx, ok := f.env.Map.IndexOf(pos)
	require.True(t, ok)
	require.True(t, f.env.Store.Positions.Insert(e, pos))
	f.env.Spatial.Insert(e, idx)
}

func (f *fixture) player(t *testing.T, pos domain.Position) ecs.Entity {
	t.Helper()
	s := f.env.Store
	e := s.World.Create(enums.EntityKindPlayer)
	s.Players.Insert(e, domain.Player{})
	s.Names.Insert(e, domain.Name{Value: "Player"})
	s.Blockers.Insert(e, domain.BlocksTile{})
	s.Stats.Insert(e, domain.CombatStats{MaxHP: 30, HP: 30, Defense: 2, Power: 5})
	s.Views.Insert(e, domain.FieldOfView{Radius: 8, IsDirty: true})
	f.place(t, e, pos)
	return e
}

func (f *fixture) monster(t *testing.T, pos domain.Position) ecs.Entity {
	t.Helper()
	s := f.env.Store
	e := s.World.Create(enums.EntityKindMonster)
	s.Monsters.Insert(e, domain.Monster{})
	s.Names.Insert(e, domain.Name{Value: "Goblin"})
	s.Blockers.Insert(e, domain.BlocksTile{})
	s.Stats.Insert(e, domain.CombatStats{MaxHP: 10, HP: 10, Defense: 1, Power: 4})
	s.Views.Insert(e, domain.FieldOfView{Radius: 8, IsDirty: true})
	f.place(t, e, pos)
	return e
}

func (f *fixture) item(t *testing.T, name string, pos *domain.Position) ecs.Entity {
	t.Helper()
	s := f.env.Store
	e := s.World.Create(enums.EntityKindItem)
	s.Items.Insert(e, domain.Item{})
	s.Names.Insert(e, domain.Name{Value: name})
	if pos != nil {
		f.place(t, e, *pos)
	}
	return e
}

func (f *fixture) pos(t *testing.T, e ecs.Entity) domain.Position {
	t.Helper()
	p, ok := f.env.Store.Positions.Get(e)
	require.True(t, ok)
	return p
}

func (f *fixture) idx(p domain.Position) int {
	return f.env.Map.Index(p.X, p.Y)
}
