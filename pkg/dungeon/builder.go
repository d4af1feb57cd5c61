// Package dungeon строит слои подземелья: карту из комнат и коридоров
// и список того, что на ней появится.
//
// Пакет ничего не знает о пространственном индексе: Populate создаёт
// сущности в хранилище, а индекс заполняет владелец симуляции.
package dungeon

import (
	"math/rand"

	"cognitive-sim/internal/core/types/enums"
	"cognitive-sim/internal/domain"
)

// Константы генерации
const (
	MapWidth  = 80
	MapHeight = 43
	MaxRooms  = 30
	MinSize   = 6
	MaxSize   = 10
)

// Spawn - шаблон и клетка, где он появится.
type Spawn struct {
	Template string
	Pos      domain.Position
}

// Level - результат сборки слоя.
type Level struct {
	Map    *domain.Map
	Rooms  []Rect
	Start  domain.Position
	Spawns []Spawn
}

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	layer  int
	width  int
	height int
	rooms  []Rect
	m      *domain.Map
	spawns []Spawn
	taken  map[int]bool
	rng    *rand.Rand
}

// NewLevel создает новый builder для слоя
func NewLevel(layer int, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		layer:  layer,
		width:  MapWidth,
		height: MapHeight,
		taken:  make(map[int]bool),
		rng:    rng,
	}
}

func (b *LevelBuilder) randRange(lo, hi int) int {
	return b.rng.Intn(hi-lo+1) + lo
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

// WithRooms генерирует комнаты и соединяет каждую с предыдущей L-образным коридором.
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	b.m = domain.NewMap(b.width, b.height, b.layer)
	b.rooms = make([]Rect, 0, maxRooms)

	maxW := min(MaxSize, b.width-3)
	maxH := min(MaxSize, b.height-3)
	minW := min(MinSize, maxW)
	minH := min(MinSize, maxH)

	for i := 0; i < maxRooms; i++ {
		w := b.randRange(minW, maxW)
		h := b.randRange(minH, maxH)
		x := b.randRange(1, b.width-w-2)
		y := b.randRange(1, b.height-h-2)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		createRoom(b.m, newRoom)
		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := newRoom.Center()

			if b.rng.Intn(2) == 0 {
				createHCorridor(b.m, prevX, currX, prevY)
				createVCorridor(b.m, prevY, currY, currX)
			} else {
				createVCorridor(b.m, prevY, currY, prevX)
				createHCorridor(b.m, prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}

	return b
}

// WithArena делает одну открытую комнату во всю карту (стены только по краю).
func (b *LevelBuilder) WithArena() *LevelBuilder {
	b.m = domain.NewMap(b.width, b.height, b.layer)
	room := Rect{X: 0, Y: 0, W: b.width - 1, H: b.height - 1}
	createRoom(b.m, room)
	b.rooms = []Rect{room}
	return b
}

// SpawnMonsters расставляет до perRoom монстров в каждой комнате, кроме первой.
func (b *LevelBuilder) SpawnMonsters(perRoom int) *LevelBuilder {
	for i := 1; i < len(b.rooms); i++ {
		count := b.rng.Intn(perRoom + 1)
		for n := 0; n < count; n++ {
			name := Goblin
			if b.rng.Intn(4) == 0 {
				name = Orc
			}
			b.spawnInRoom(b.rooms[i], name)
		}
	}
	return b
}

// SpawnItems раскладывает count предметов по случайным комнатам.
func (b *LevelBuilder) SpawnItems(count int) *LevelBuilder {
	if len(b.rooms) == 0 {
		return b
	}
	for n := 0; n < count; n++ {
		room := b.rooms[b.rng.Intn(len(b.rooms))]
		b.spawnInRoom(room, b.randomItem())
	}
	return b
}

// Spawn ставит шаблон в конкретную клетку (для тестов и сценариев).
func (b *LevelBuilder) Spawn(template string, x, y int) *LevelBuilder {
	b.spawns = append(b.spawns, Spawn{Template: template, Pos: domain.Position{X: x, Y: y, Layer: b.layer}})
	if b.m != nil && b.m.InBounds(x, y) {
		b.taken[b.m.Index(x, y)] = true
	}
	return b
}

// PlaceStairs ставит лестницу вниз в центр последней комнаты.
func (b *LevelBuilder) PlaceStairs() *LevelBuilder {
	if len(b.rooms) == 0 {
		return b
	}
	cx, cy := b.rooms[len(b.rooms)-1].Center()
	b.m.SetTile(cx, cy, enums.TileDownStairs)
	return b
}

// GetStartPos возвращает стартовую позицию (центр первой комнаты)
func (b *LevelBuilder) GetStartPos() domain.Position {
	if len(b.rooms) > 0 {
		cx, cy := b.rooms[0].Center()
		return domain.Position{X: cx, Y: cy, Layer: b.layer}
	}
	return domain.Position{X: b.width / 2, Y: b.height / 2, Layer: b.layer}
}

// Build собирает и возвращает готовый слой
func (b *LevelBuilder) Build() *Level {
	if b.m == nil {
		b.WithRooms(MaxRooms)
	}
	return &Level{
		Map:    b.m,
		Rooms:  b.rooms,
		Start:  b.GetStartPos(),
		Spawns: b.spawns,
	}
}

// spawnInRoom ищет свободную клетку пола в комнате (максимум 20 попыток).
func (b *LevelBuilder) spawnInRoom(room Rect, template string) {
	start := b.GetStartPos()
	for attempt := 0; attempt < 20; attempt++ {
		x := room.X + 1 + b.rng.Intn(max(1, room.W-1))
		y := room.Y + 1 + b.rng.Intn(max(1, room.H-1))
		idx := b.m.Index(x, y)
		if b.taken[idx] || !b.m.IsPassable(idx) || (x == start.X && y == start.Y) {
			continue
		}
		b.taken[idx] = true
		b.spawns = append(b.spawns, Spawn{Template: template, Pos: domain.Position{X: x, Y: y, Layer: b.layer}})
		return
	}
}

func (b *LevelBuilder) randomItem() string {
	switch roll := b.rng.Intn(10); {
	case roll < 4:
		return HealthPotion
	case roll < 6:
		return MagicMissileScroll
	case roll < 8:
		return FireballScroll
	default:
		return ConfusionScroll
	}
}
