package dungeon

import "math/rand"

// Params - параметры генерации слоя.
type Params struct {
	Width, Height   int
	MaxRooms        int
	MonstersPerRoom int
}

// LayerSeed - зерно слоя: мастер-зерно плюс номер слоя.
func LayerSeed(master int64, layer int) int64 {
	return master + int64(layer)
}

// Generate строит слой с комнатами, монстрами, предметами и лестницей.
// Один и тот же seed даёт один и тот же слой.
func Generate(layer int, seed int64, p Params) *Level {
	rng := rand.New(rand.NewSource(seed))
	return NewLevel(layer, rng).
		WithSize(p.Width, p.Height).
		WithRooms(p.MaxRooms).
		SpawnMonsters(p.MonstersPerRoom).
		SpawnItems(max(1, p.MaxRooms/4)+layer).
		PlaceStairs().
		Build()
}
