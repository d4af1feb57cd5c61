package ecs

import "sync"

// Storage хранит компоненты типа T.
// Порядок Entities/Each совпадает с порядком первой вставки компонента.
type Storage[T any] struct {
	mu         sync.RWMutex
	world      *World
	components map[Entity]T
	entities   []Entity
}

// Register создаёт хранилище T и подключает его к жизненному циклу мира.
func Register[T any](w *World) *Storage[T] {
	s := &Storage[T]{
		world:      w,
		components: make(map[Entity]T),
		entities:   make([]Entity, 0, 64),
	}
	w.register(s)
	return s
}

// Insert добавляет или заменяет компонент. Для мёртвой сущности возвращает false.
func (s *Storage[T]) Insert(e Entity, val T) bool {
	if !s.world.Alive(e) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
	return true
}

func (s *Storage[T]) Get(e Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[e]
	return val, ok
}

func (s *Storage[T]) Has(e Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// Mutate изменяет компонент на месте под блокировкой хранилища.
// fn не должна обращаться к этому же хранилищу.
func (s *Storage[T]) Mutate(e Entity, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.components[e]
	if !ok {
		return false
	}
	fn(&val)
	s.components[e] = val
	return true
}

// Remove снимает компонент. Отсутствие компонента - не ошибка.
func (s *Storage[T]) Remove(e Entity) {
	s.remove(e)
}

// Entities возвращает копию списка владельцев компонента.
func (s *Storage[T]) Entities() []Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Each обходит снимок владельцев. Компонент читается заново перед вызовом,
// поэтому fn может удалять сущности и менять другие хранилища.
func (s *Storage[T]) Each(fn func(e Entity, val T)) {
	for _, e := range s.Entities() {
		if val, ok := s.Get(e); ok {
			fn(e, val)
		}
	}
}

func (s *Storage[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

func (s *Storage[T]) remove(e Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

func (s *Storage[T]) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[Entity]T)
	s.entities = s.entities[:0]
}
