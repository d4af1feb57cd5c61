package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"cognitive-sim/internal/domain"
)

const (
	MagicHeader string = `CDSV` // 4 байта
	Version1    uint32 = 1

	// MaxPayloadLen - предел JSON-тела. Карта 200x200 со всеми сущностями
	// занимает единицы мегабайт.
	MaxPayloadLen uint32 = 64 << 20
)

// FileHeader - точное представление заголовка файла сохранения.
// binary.Write пишет его целиком: тут нет слайсов и строк, только массивы и числа.
type FileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Seed       int64   // 8 байт
	Timestamp  int64   // 8 байт
	Tick       uint64  // 8 байт
	Layer      int32   // 4 байта
	State      uint8   // 1 байт
	_          [3]byte // выравнивание
	PayloadLen uint32  // 4 байта
}

// body - JSON-часть файла после заголовка.
type body struct {
	Map      *domain.Map    `json:"map"`
	Entities []EntityRecord `json:"entities"`
}

// Write пишет снимок: заголовок little-endian, затем JSON с картой и сущностями.
func Write(w io.Writer, snap *Snapshot) error {
	payload, err := json.Marshal(body{Map: snap.Map, Entities: snap.Entities})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if uint64(len(payload)) > uint64(MaxPayloadLen) {
		return fmt.Errorf("snapshot too large: %d bytes", len(payload))
	}

	// 1. Заголовок
	header := FileHeader{
		Version:    Version1,
		Seed:       snap.Seed,
		Timestamp:  snap.Timestamp,
		Tick:       snap.Tick,
		Layer:      int32(snap.Layer),
		State:      uint8(snap.State),
		PayloadLen: uint32(len(payload)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Тело
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}
