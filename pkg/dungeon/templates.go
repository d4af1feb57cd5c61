package dungeon

import (
	"cognitive-sim/internal/core/types"
	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
)

// Имена шаблонов.
const (
	Goblin = "goblin"
	Orc    = "orc"

	HealthPotion       = "health_potion"
	MagicMissileScroll = "magic_missile_scroll"
	FireballScroll     = "fireball_scroll"
	ConfusionScroll    = "confusion_scroll"
)

// MonsterTemplate определяет шаблон для создания монстра
type MonsterTemplate struct {
	Name        string
	Description string
	Char        byte
	Color       uint32
	Stats       domain.CombatStats
	Vision      int
}

// ItemTemplate - шаблон предмета. Нулевые поля означают отсутствие компонента.
type ItemTemplate struct {
	Name        string
	Description string
	Char        byte
	Color       uint32

	Consumable bool
	Healing    int
	Damage     int
	Range      int
	Radius     int
	Confusion  int32
}

// --- ВРАГИ ---

var MonsterTemplates = map[string]MonsterTemplate{
	Goblin: {
		Name:        "Goblin",
		Description: "A small, sneaky goblin glancing around.",
		Char:        'g',
		Color:       0x22C55E,
		Stats:       domain.CombatStats{MaxHP: 8, HP: 8, Defense: 1, Power: 3},
		Vision:      8,
	},
	Orc: {
		Name:        "Orc",
		Description: "A huge green-skinned orc with a heavy club.",
		Char:        'o',
		Color:       0xDC2626,
		Stats:       domain.CombatStats{MaxHP: 16, HP: 16, Defense: 1, Power: 4},
		Vision:      8,
	},
}

// --- ПРЕДМЕТЫ ---

var ItemTemplates = map[string]ItemTemplate{
	HealthPotion: {
		Name:        "Health Potion",
		Description: "A bubbling red liquid.",
		Char:        '!',
		Color:       0xFF00FF,
		Consumable:  true,
		Healing:     8,
	},
	MagicMissileScroll: {
		Name:        "Magic Missile Scroll",
		Description: "Crackles with stored force.",
		Char:        ')',
		Color:       0x00FFFF,
		Consumable:  true,
		Damage:      8,
		Range:       6,
	},
	FireballScroll: {
		Name:        "Fireball Scroll",
		Description: "Warm to the touch.",
		Char:        ')',
		Color:       0xFFA500,
		Consumable:  true,
		Damage:      20,
		Range:       6,
		Radius:      3,
	},
	ConfusionScroll: {
		Name:        "Confusion Scroll",
		Description: "The letters swim before your eyes.",
		Char:        ')',
		Color:       0xFF69B4,
		Consumable:  true,
		Confusion:   4,
		Range:       6,
	},
}

// SpawnPlayer создаёт игрока в pos.
func SpawnPlayer(s *domain.Store, pos domain.Position, vision int) ecs.Entity {
	e := s.World.Create(enums.EntityKindPlayer)
	s.Positions.Insert(e, pos)
	s.Names.Insert(e, domain.Name{Value: "Player"})
	s.Descriptions.Insert(e, domain.Description{Text: "A brave dungeon explorer."})
	s.Renderables.Insert(e, domain.Renderable{Glyph: types.MakeGlyph(0xFFFF00, '@'), Order: enums.RenderOrderActor})
	s.Players.Insert(e, domain.Player{})
	s.Blockers.Insert(e, domain.BlocksTile{})
	s.Stats.Insert(e, domain.CombatStats{MaxHP: 30, HP: 30, Defense: 2, Power: 5})
	s.Views.Insert(e, domain.FieldOfView{Radius: vision, IsDirty: true})
	return e
}

// SpawnMonster создаёт монстра из шаблона. ok=false для неизвестного имени.
func SpawnMonster(s *domain.Store, name string, pos domain.Position) (ecs.Entity, bool) {
	t, ok := MonsterTemplates[name]
	if !ok {
		return 0, false
	}
	e := s.World.Create(enums.EntityKindMonster)
	s.Positions.Insert(e, pos)
	s.Names.Insert(e, domain.Name{Value: t.Name})
	s.Descriptions.Insert(e, domain.Description{Text: t.Description})
	s.Renderables.Insert(e, domain.Renderable{Glyph: types.MakeGlyph(t.Color, t.Char), Order: enums.RenderOrderActor})
	s.Monsters.Insert(e, domain.Monster{})
	s.Blockers.Insert(e, domain.BlocksTile{})
	s.Stats.Insert(e, t.Stats)
	s.Views.Insert(e, domain.FieldOfView{Radius: t.Vision, IsDirty: true})
	return e, true
}

// SpawnItem создаёт предмет из шаблона на карте.
func SpawnItem(s *domain.Store, name string, pos domain.Position) (ecs.Entity, bool) {
	t, ok := ItemTemplates[name]
	if !ok {
		return 0, false
	}
	e := s.World.Create(enums.EntityKindItem)
	s.Positions.Insert(e, pos)
	s.Names.Insert(e, domain.Name{Value: t.Name})
	s.Descriptions.Insert(e, domain.Description{Text: t.Description})
	s.Renderables.Insert(e, domain.Renderable{Glyph: types.MakeGlyph(t.Color, t.Char), Order: enums.RenderOrderItem})
	s.Items.Insert(e, domain.Item{})

	if t.Consumable {
		s.Consumables.Insert(e, domain.Consumable{})
	}
	if t.Healing > 0 {
		s.ProvidesHealing.Insert(e, domain.ProvidesHealing{Amount: t.Healing})
	}
	if t.Damage > 0 {
		s.InflictsDamage.Insert(e, domain.InflictsDamage{Damage: t.Damage})
	}
	if t.Range > 0 {
		s.Ranged.Insert(e, domain.Ranged{Range: t.Range})
	}
	if t.Radius > 0 {
		s.AreaOfEffect.Insert(e, domain.AreaOfEffect{Radius: t.Radius})
	}
	if t.Confusion > 0 {
		s.CausesConfusion.Insert(e, domain.CausesConfusion{Turns: t.Confusion})
	}
	return e, true
}

// Populate создаёт все сущности слоя. Неизвестные шаблоны пропускаются.
func Populate(s *domain.Store, lvl *Level) []ecs.Entity {
	out := make([]ecs.Entity, 0, len(lvl.Spawns))
	for _, sp := range lvl.Spawns {
		if e, ok := SpawnMonster(s, sp.Template, sp.Pos); ok {
			out = append(out, e)
			continue
		}
		if e, ok := SpawnItem(s, sp.Template, sp.Pos); ok {
			out = append(out, e)
		}
	}
	return out
}
