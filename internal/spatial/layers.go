package spatial

import "sync"

// Layers - индексы всех загруженных слоёв подземелья.
type Layers struct {
	mu     sync.RWMutex
	strict bool
	byID   map[int]*Index
}

func NewLayers(strict bool) *Layers {
	return &Layers{strict: strict, byID: make(map[int]*Index)}
}

// Establish создаёт индекс слоя или очищает и переразмечает существующий.
func (l *Layers) Establish(layer, tileCount int) *Index {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx, ok := l.byID[layer]; ok {
		idx.Resize(tileCount)
		return idx
	}
	idx := NewIndex(layer, tileCount, l.strict)
	l.byID[layer] = idx
	return idx
}

// Layer возвращает индекс слоя или nil, если слой не загружен.
func (l *Layers) Layer(layer int) *Index {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byID[layer]
}

// Drop выгружает индекс слоя.
func (l *Layers) Drop(layer int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byID, layer)
}

func (l *Layers) Strict() bool {
	return l.strict
}
