package network

import (
	"sync"

	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/logger"
)

const subscriberBuffer = 100

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> Личный канал
	subscribers map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал для сессии (клиента или бота)
func (b *Broadcaster) Register(sessionID string) <-chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, subscriberBuffer)
	b.subscribers[sessionID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
	}
}

// SendTo отправляет сообщение конкретной сессии (Unicast)
func (b *Broadcaster) SendTo(sessionID string, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ch, ok := b.subscribers[sessionID]
	if !ok {
		return false
	}
	return b.offer(sessionID, ch, msg)
}

// Broadcast отправляет всем подписчикам. Медленный подписчик пропускает снимок.
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.offer(id, ch, msg)
	}
}

func (b *Broadcaster) offer(id string, ch chan api.ServerResponse, msg api.ServerResponse) bool {
	select {
	case ch <- msg:
		return true
	default:
		logger.WithComponent("hub").WithField("session", id).Debug("Channel full, snapshot skipped")
		return false
	}
}

// HasSubscriber проверяет, подключена ли сессия
func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
