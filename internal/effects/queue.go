package effects

import (
	"sync"

	"cognitive-sim/internal/ecs"
)

// Queue - FIFO эффектов. Единственная структура, рассчитанная на
// конкурентных производителей: Add можно вызывать из параллельных систем.
// Блокировка держится только на время push/pop.
type Queue struct {
	mu    sync.Mutex
	items []Spawner
	head  int
}

func NewQueue() *Queue {
	return &Queue{items: make([]Spawner, 0, 64)}
}

// Add ставит эффект в хвост. Очередь не ограничена и никогда не блокирует надолго.
func (q *Queue) Add(creator ecs.Entity, effect Effect, targets Targets) {
	q.Push(Spawner{Creator: creator, Effect: effect, Targets: targets})
}

func (q *Queue) Push(s Spawner) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()
}

// Pop снимает эффект с головы. ok=false, если очередь пуста.
func (q *Queue) Pop() (Spawner, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return Spawner{}, false
	}
	s := q.items[q.head]
	q.items[q.head] = Spawner{}
	q.head++

	// Сжимаем буфер, когда голова ушла далеко.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	return s, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Reset отбрасывает всё содержимое (загрузка сохранения, смена уровня).
func (q *Queue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
