// Package spatial - индекс занятости клеток: tile index -> сущности на клетке.
//
// Индекс не знает о компонентах. Его согласованность с Position поддерживают
// вызывающие: каждая вставка/перемещение/удаление Position сопровождается
// соответствующим вызовом Insert/MoveEntity/Remove.
//
// Индекс вне диапазона [0, TileCount) - ошибка программиста. В строгом режиме
// (debug.strict_asserts) это паника, иначе предупреждение в лог и вызов
// игнорируется.
package spatial

import (
	"fmt"
	"sync"

	"cognitive-sim/internal/ecs"
	"cognitive-sim/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Index - занятость клеток одного слоя.
type Index struct {
	mu     sync.RWMutex
	layer  int
	strict bool
	cells  [][]ecs.Entity
}

// NewIndex создаёт пустой индекс на tileCount клеток.
func NewIndex(layer, tileCount int, strict bool) *Index {
	idx := &Index{layer: layer, strict: strict}
	idx.Resize(tileCount)
	return idx
}

// Resize задаёт число клеток и очищает все записи.
// Вызывается при каждой (пере)загрузке карты слоя.
func (s *Index) Resize(tileCount int) {
	if tileCount < 0 {
		tileCount = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = make([][]ecs.Entity, tileCount)
}

func (s *Index) TileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}

func (s *Index) Layer() int {
	return s.layer
}

// Insert добавляет сущность в клетку. Повторная вставка не создаёт дубликат.
func (s *Index) Insert(e ecs.Entity, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLocked("insert", e, idx) {
		return
	}
	s.insertLocked(e, idx)
}

// Remove убирает сущность из клетки. Отсутствие записи - тихий no-op.
func (s *Index) Remove(e ecs.Entity, idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLocked("remove", e, idx) {
		return
	}
	s.removeLocked(e, idx)
}

// MoveEntity переносит сущность из oldIdx в newIdx одной операцией.
func (s *Index) MoveEntity(e ecs.Entity, oldIdx, newIdx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.checkLocked("move_from", e, oldIdx) || !s.checkLocked("move_to", e, newIdx) {
		return
	}
	if oldIdx == newIdx {
		s.insertLocked(e, newIdx)
		return
	}
	s.removeLocked(e, oldIdx)
	s.insertLocked(e, newIdx)
}

// OccupantsAt возвращает копию списка сущностей клетки в порядке вставки.
// Копия не меняется при последующих мутациях индекса.
func (s *Index) OccupantsAt(idx int) []ecs.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.checkLocked("occupants", ecs.Entity(0), idx) {
		return nil
	}
	cell := s.cells[idx]
	if len(cell) == 0 {
		return nil
	}
	out := make([]ecs.Entity, len(cell))
	copy(out, cell)
	return out
}

// ForEachOccupant вызывает visit для каждого обитателя клетки.
// Обход идёт по снимку, поэтому visit может менять индекс.
func (s *Index) ForEachOccupant(idx int, visit func(e ecs.Entity)) {
	for _, e := range s.OccupantsAt(idx) {
		visit(e)
	}
}

// Contains проверяет наличие сущности в клетке.
func (s *Index) Contains(e ecs.Entity, idx int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx < 0 || idx >= len(s.cells) {
		return false
	}
	for _, other := range s.cells[idx] {
		if other == e {
			return true
		}
	}
	return false
}

// Each обходит все непустые клетки (для проверок инварианта и снапшотов).
func (s *Index) Each(fn func(idx int, occupants []ecs.Entity)) {
	s.mu.RLock()
	snapshot := make(map[int][]ecs.Entity)
	for i, cell := range s.cells {
		if len(cell) > 0 {
			snapshot[i] = append([]ecs.Entity(nil), cell...)
		}
	}
	n := len(s.cells)
	s.mu.RUnlock()

	for i := 0; i < n; i++ {
		if occ, ok := snapshot[i]; ok {
			fn(i, occ)
		}
	}
}

// Len возвращает общее число записей.
func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, cell := range s.cells {
		total += len(cell)
	}
	return total
}

func (s *Index) insertLocked(e ecs.Entity, idx int) {
	for _, other := range s.cells[idx] {
		if other == e {
			return
		}
	}
	s.cells[idx] = append(s.cells[idx], e)
}

func (s *Index) removeLocked(e ecs.Entity, idx int) {
	cell := s.cells[idx]
	for i, other := range cell {
		if other == e {
			// Сохраняем порядок: от него зависит порядок разрешения тайловых эффектов.
			s.cells[idx] = append(cell[:i], cell[i+1:]...)
			return
		}
	}
}

func (s *Index) checkLocked(op string, e ecs.Entity, idx int) bool {
	if idx >= 0 && idx < len(s.cells) {
		return true
	}
	msg := fmt.Sprintf("spatial: %s tile %d out of range [0,%d) on layer %d", op, idx, len(s.cells), s.layer)
	if s.strict {
		panic(msg)
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "spatial_index",
		"op":        op,
		"entity":    e.String(),
		"tile":      idx,
		"layer":     s.layer,
	}).Warn(msg)
	return false
}
