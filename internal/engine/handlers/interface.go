// Package handlers переводит команды клиента в доменные команды симуляции.
package handlers

import (
	"encoding/json"

	"cognitive-sim/internal/domain"
	"cognitive-sim/internal/ecs"
)

// Context передает хендлеру состояние мира только для чтения:
// хендлер разбирает и проверяет ввод, а мутирует мир уже Simulation.
type Context struct {
	Store *domain.Store
	Map   *domain.Map
	Actor ecs.Entity // Игрок, от имени которого пришла команда
}

// Result - возвращает результат разбора команды.
// Хендлер НЕ пишет в журнал напрямую, он возвращает данные.
type Result struct {
	Command *domain.Command // nil - в симуляцию ничего не передаётся
	Msg     string          // Текст лога
	MsgType string          // Тип лога (INFO, COMBAT, ERROR)
}

// HandlerFunc - это контракт для любой команды (MOVE, USE, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Issue - результат, передающий команду в симуляцию.
func Issue(cmd domain.Command) Result {
	return Result{Command: &cmd}
}
