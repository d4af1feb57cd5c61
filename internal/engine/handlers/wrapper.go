package handlers

import (
	"encoding/json"
	"fmt"

	"cognitive-sim/pkg/api"
)

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (INIT, WAIT)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Распаковку и валидацию (api.Validator) делает api.DecodePayload.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		payload, err := api.DecodePayload[T](raw)
		if err != nil {
			return Result{}, fmt.Errorf("payload %T: %w", payload, err)
		}
		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных (INIT, WAIT)
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}
