package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return errors.New("movement step too large")
	}
	return nil
}

func (p ItemPayload) Validate() error {
	if p.ItemID == "" {
		return errors.New("itemId is required")
	}
	if (p.X == nil) != (p.Y == nil) {
		return errors.New("target requires both x and y")
	}
	return nil
}

// DecodePayload разбирает payload в T и вызывает Validate, если T его реализует.
func DecodePayload[T any](raw json.RawMessage) (T, error) {
	var p T
	if len(raw) == 0 {
		return p, errors.New("payload is required")
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	if v, ok := any(p).(Validator); ok {
		if err := v.Validate(); err != nil {
			return p, err
		}
	}
	return p, nil
}
