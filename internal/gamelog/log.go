// Package gamelog - журнал сообщений, которые видит игрок.
package gamelog

import (
	"crypto/rand"
	"sync"
	"time"

	"cognitive-sim/pkg/api"
	"cognitive-sim/pkg/logger"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const (
	TypeInfo   = "INFO"
	TypeCombat = "COMBAT"
	TypeError  = "ERROR"
)

const defaultHistory = 200

// Log хранит историю и очередь ещё не отправленных клиенту записей.
// Каждая запись дублируется в logrus.
type Log struct {
	mu       sync.Mutex
	instance string
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
	history  []api.LogEntry
	pending  []api.LogEntry
	limit    int
}

func New(instance string) *Log {
	return &Log{
		instance: instance,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
		limit:    defaultHistory,
	}
}

// Add добавляет запись и возвращает её.
func (l *Log) Add(text, logType string) api.LogEntry {
	l.mu.Lock()
	now := l.now()
	entry := api.LogEntry{
		ID:        ulid.MustNew(ulid.Timestamp(now), l.entropy).String(),
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	}
	l.history = append(l.history, entry)
	if len(l.history) > l.limit {
		l.history = l.history[len(l.history)-l.limit:]
	}
	l.pending = append(l.pending, entry)
	l.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"instance":  l.instance,
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
	return entry
}

func (l *Log) Info(text string)   { l.Add(text, TypeInfo) }
func (l *Log) Combat(text string) { l.Add(text, TypeCombat) }
func (l *Log) Error(text string)  { l.Add(text, TypeError) }

// Drain возвращает записи, накопленные с прошлого вызова.
func (l *Log) Drain() []api.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.pending
	l.pending = nil
	return out
}

// History возвращает последние n записей (все, если n <= 0).
func (l *Log) History(n int) []api.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.history) {
		n = len(l.history)
	}
	out := make([]api.LogEntry, n)
	copy(out, l.history[len(l.history)-n:])
	return out
}

// Texts - тексты всей истории, удобно для тестов и бота.
func (l *Log) Texts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.history))
	for i, e := range l.history {
		out[i] = e.Text
	}
	return out
}
