package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"cognitive-sim/internal/scheduler"
)

// Read разбирает файл сохранения, записанный Write.
func Read(r io.Reader) (*Snapshot, error) {
	// 1. Читаем заголовок целиком
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, header.Magic[:])
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}
	state := scheduler.TurnState(header.State)
	if state != scheduler.AwaitingInput && state != scheduler.GameOver {
		return nil, fmt.Errorf("unexpected saved state %s", state)
	}

	if header.PayloadLen > MaxPayloadLen {
		return nil, fmt.Errorf("%w: payload %d bytes exceeds %d", ErrCorruptSnapshot, header.PayloadLen, MaxPayloadLen)
	}

	// 2. Читаем тело. Буфер растёт по мере чтения, а не по длине из заголовка.
	payload, err := io.ReadAll(io.LimitReader(r, int64(header.PayloadLen)))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if len(payload) != int(header.PayloadLen) {
		return nil, fmt.Errorf("failed to read payload: %w", io.ErrUnexpectedEOF)
	}
	var b body
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	return &Snapshot{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Tick:      header.Tick,
		Layer:     int(header.Layer),
		State:     state,
		Map:       b.Map,
		Entities:  b.Entities,
	}, nil
}
