package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Glyph - упакованный цветной символ для Renderable и частиц.
//
//	[0:8]  - символ (ASCII)
//	[8:32] - RGB-цвет 0xRRGGBB
type Glyph uint32

const (
	bitsChar  = 8
	bitsColor = 24

	shiftColor = bitsChar

	maskChar  = (1 << bitsChar) - 1
	maskColor = (1 << bitsColor) - 1
)

// MakeGlyph собирает Glyph. Старшие 8 бит colorRGB игнорируются.
//
//	MakeGlyph(0xFFA500, 'A') == 0xFFA50041
func MakeGlyph(colorRGB uint32, char byte) Glyph {
	return Glyph((colorRGB&maskColor)<<shiftColor | (uint32(char) & maskChar))
}

func (g Glyph) Color() uint32 {
	return uint32(g>>shiftColor) & maskColor
}

func (g Glyph) Char() byte {
	return byte(g & maskChar)
}

// WithColor возвращает копию с заменённым цветом.
func (g Glyph) WithColor(colorRGB uint32) Glyph {
	return MakeGlyph(colorRGB, g.Char())
}

// HexColor возвращает цвет в виде "#RRGGBB".
func (g Glyph) HexColor() string {
	return fmt.Sprintf("#%06X", g.Color())
}

// String реализует fmt.Stringer. Непечатаемые символы выводятся как \xNN.
func (g Glyph) String() string {
	char := g.Char()
	charStr := string([]byte{char})
	if char < 32 || char > 126 {
		charStr = fmt.Sprintf("\\x%02X", char)
	}
	return fmt.Sprintf("Glyph{char='%s', color=%s}", charStr, g.HexColor())
}

// ParseHexColor разбирает "#RRGGBB" или "RRGGBB" (используется префабами).
func ParseHexColor(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if v > maskColor {
		return 0, fmt.Errorf("color %q: out of 24-bit range", s)
	}
	return uint32(v), nil
}

type glyphJSON struct {
	Char  string `json:"char"`
	Color string `json:"color"`
}

// MarshalJSON отдаёт клиенту символ и цвет раздельно.
func (g Glyph) MarshalJSON() ([]byte, error) {
	return json.Marshal(glyphJSON{Char: string([]byte{g.Char()}), Color: g.HexColor()})
}

func (g *Glyph) UnmarshalJSON(data []byte) error {
	var raw glyphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Char) != 1 {
		return fmt.Errorf("glyph char %q: want exactly one byte", raw.Char)
	}
	color, err := ParseHexColor(raw.Color)
	if err != nil {
		return err
	}
	*g = MakeGlyph(color, raw.Char[0])
	return nil
}
