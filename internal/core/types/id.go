package types

import (
	"fmt"
	"strconv"

	"cognitive-sim/internal/core/types/enums"
)

// EntityID - 64-битный идентификатор сущности симуляции.
//
// Формат битов (от старших к младшим):
//
//	[ Shard (8) | Kind (8) | Generation (16) | Index (32) ]
//
// Index адресует слот в хранилище компонентов, Generation увеличивается
// при каждом переиспользовании слота. Ссылка, у которой Generation не совпадает
// с текущим поколением слота, считается устаревшей: хранилище отвечает на неё
// "не найдено", а обработчики эффектов превращают её в no-op.
//
// Нулевое значение зарезервировано под NilEntityID, поэтому поколения
// начинаются с 1.
type EntityID uint64

// NilEntityID - отсутствующая сущность (например, эффект без создателя).
const NilEntityID EntityID = 0

const (
	bitsIndex = 32
	bitsGen   = 16
	bitsKind  = 8
	bitsShard = 8

	shiftGen   = bitsIndex
	shiftKind  = bitsIndex + bitsGen
	shiftShard = bitsIndex + bitsGen + bitsKind

	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskKind  = (1 << bitsKind) - 1
	maskShard = (1 << bitsShard) - 1
)

// PackEntityID собирает EntityID из составных частей.
// Проверок диапазонов нет: лишние биты просто отбрасываются маской.
func PackEntityID(shard uint8, kind enums.EntityKind, gen uint16, index uint32) EntityID {
	return EntityID(
		(uint64(shard&maskShard) << shiftShard) |
			(uint64(uint8(kind)&maskKind) << shiftKind) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

// Index возвращает номер слота в хранилище.
func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

// Generation возвращает поколение слота, для которого выдан идентификатор.
func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

func (id EntityID) Kind() enums.EntityKind {
	return enums.EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Shard() uint8 {
	return uint8((id >> shiftShard) & maskShard)
}

// SameSlot сообщает, указывают ли два идентификатора на один и тот же слот,
// независимо от поколения.
func (id EntityID) SameSlot(other EntityID) bool {
	return id.Index() == other.Index() && id.Shard() == other.Shard()
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// String возвращает человекочитаемое представление для логов.
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d.%d", id.Kind(), id.Index(), id.Generation())
}

// MarshalJSON пишет идентификатор строкой, чтобы JS-клиент не терял точность uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает и строковое, и числовое представление.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("entity id %q: %w", s, err)
	}
	*id = EntityID(v)
	return nil
}
