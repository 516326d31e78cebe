package paint

import "fmt"

// Color is a packed 32-bit ARGB value. Two colors are equal when their
// components are equal, however they were constructed.
type Color uint32

// ARGB packs alpha, red, green and blue components.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB packs an opaque color.
func RGB(r, g, b uint8) Color { return ARGB(0xff, r, g, b) }

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// String formats the color as #AARRGGBB.
func (c Color) String() string { return fmt.Sprintf("#%08X", uint32(c)) }

// KnownColor names a color that has stock pens and brushes.
type KnownColor int

const (
	NotKnown KnownColor = iota
	Black
	White
	Gray
	Red
	Green
	Blue
	Yellow
	Transparent
)

var knownColors = map[Color]KnownColor{
	RGB(0x00, 0x00, 0x00):        Black,
	RGB(0xff, 0xff, 0xff):        White,
	RGB(0x80, 0x80, 0x80):        Gray,
	RGB(0xff, 0x00, 0x00):        Red,
	RGB(0x00, 0x80, 0x00):        Green,
	RGB(0x00, 0x00, 0xff):        Blue,
	RGB(0xff, 0xff, 0x00):        Yellow,
	ARGB(0x00, 0xff, 0xff, 0xff): Transparent,
}

// Known returns the known color matching c, or NotKnown.
func (c Color) Known() KnownColor { return knownColors[c] }
