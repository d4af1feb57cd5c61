// Package ecs - хранилище сущностей и компонентов симуляции.
//
// World выдаёт идентификаторы с поколениями и следит за жизнью слотов,
// Storage[T] хранит компоненты одного типа. Удаление сущности через World
// снимает её со всех зарегистрированных хранилищ.
package ecs

import (
	"errors"
	"sync"

	"cognitive-sim/internal/core/types"
	"cognitive-sim/internal/core/types/enums"
)

// Entity - сущность симуляции.
type Entity = types.EntityID

// ErrEntityNotFound возвращается для удалённых или устаревших идентификаторов.
var ErrEntityNotFound = errors.New("ecs: entity not found")

type componentStore interface {
	remove(e Entity)
	clear()
}

type slot struct {
	gen   uint16
	kind  enums.EntityKind
	alive bool
}

// World - арена слотов. Структурные изменения (Create/Delete/Clear)
// сериализуются мьютексом мира.
type World struct {
	mu     sync.RWMutex
	shard  uint8
	slots  []slot
	free   []uint32
	stores []componentStore
	live   int
}

func NewWorld(shard uint8) *World {
	return &World{shard: shard}
}

// Create выделяет слот (переиспользуя освобождённые) и возвращает новый id.
func (w *World) Create(kind enums.EntityKind) Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{gen: 1})
	}

	s := &w.slots[idx]
	s.alive = true
	s.kind = kind
	w.live++

	return types.PackEntityID(w.shard, kind, s.gen, idx)
}

// Alive сообщает, жива ли сущность именно этого поколения.
func (w *World) Alive(e Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.aliveLocked(e)
}

func (w *World) aliveLocked(e Entity) bool {
	if e.IsNil() || e.Shard() != w.shard {
		return false
	}
	idx := e.Index()
	if int(idx) >= len(w.slots) {
		return false
	}
	s := w.slots[idx]
	return s.alive && s.gen == e.Generation()
}

// Delete удаляет сущность и все её компоненты.
// Для устаревшего id возвращает ErrEntityNotFound и ничего не трогает.
func (w *World) Delete(e Entity) error {
	w.mu.Lock()
	if !w.aliveLocked(e) {
		w.mu.Unlock()
		return ErrEntityNotFound
	}
	idx := e.Index()
	s := &w.slots[idx]
	s.alive = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	w.free = append(w.free, idx)
	w.live--
	stores := w.stores
	w.mu.Unlock()

	for _, st := range stores {
		st.remove(e)
	}
	return nil
}

// Entities возвращает живые сущности в порядке слотов.
func (w *World) Entities() []Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Entity, 0, w.live)
	for i, s := range w.slots {
		if s.alive {
			out = append(out, types.PackEntityID(w.shard, s.kind, s.gen, uint32(i)))
		}
	}
	return out
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live
}

func (w *World) Shard() uint8 {
	return w.shard
}

// Clear удаляет все сущности. Поколения слотов сохраняются и увеличиваются,
// поэтому старые ссылки после Clear остаются недействительными.
func (w *World) Clear() {
	w.mu.Lock()
	w.free = w.free[:0]
	for i := range w.slots {
		s := &w.slots[i]
		if s.alive {
			s.alive = false
			s.gen++
			if s.gen == 0 {
				s.gen = 1
			}
		}
		w.free = append(w.free, uint32(i))
	}
	w.live = 0
	stores := w.stores
	w.mu.Unlock()

	for _, st := range stores {
		st.clear()
	}
}

func (w *World) register(st componentStore) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stores = append(w.stores, st)
}
