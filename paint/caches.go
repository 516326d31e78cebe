package paint

import (
	"errors"
	"strings"

	"github.com/IvanBrykalov/handlecache/cache"
)

// Limits used by the constructors below when Options leaves them zero.
const (
	PenSoftLimit   = 40
	PenHardLimit   = 60
	BrushSoftLimit = 30
	BrushHardLimit = 50
	FontSoftLimit  = 10
	FontHardLimit  = 20
)

type (
	PenCache   = cache.Cache[Color, Color, *Pen]
	BrushCache = cache.Cache[Color, Color, *Brush]
	FontCache  = cache.Cache[FontKey, FontKey, *Font]

	PenScope   = cache.Scope[Color, *Pen]
	BrushScope = cache.Scope[Color, *Brush]
	FontScope  = cache.Scope[FontKey, *Font]
)

func withLimits(opt cache.Options, soft, hard int) cache.Options {
	if opt.SoftLimit == 0 && opt.HardLimit == 0 {
		opt.SoftLimit, opt.HardLimit = soft, hard
	}
	return opt
}

type penAdapter struct{ alloc Allocator }

func (a penAdapter) Create(c Color) (Color, *Pen, error) {
	p, err := NewPen(a.alloc, c)
	return c, p, err
}

func (penAdapter) Match(c, data Color) bool { return c == data }

// NewPenCache returns a cache of solid pens keyed by color.
func NewPenCache(alloc Allocator, opt cache.Options) *PenCache {
	if opt.Name == "" {
		opt.Name = "pens"
	}
	return cache.New[Color, Color, *Pen](penAdapter{alloc}, withLimits(opt, PenSoftLimit, PenHardLimit))
}

type brushAdapter struct{ alloc Allocator }

func (a brushAdapter) Create(c Color) (Color, *Brush, error) {
	b, err := NewBrush(a.alloc, c)
	return c, b, err
}

func (brushAdapter) Match(c, data Color) bool { return c == data }

// NewBrushCache returns a cache of solid brushes keyed by color.
func NewBrushCache(alloc Allocator, opt cache.Options) *BrushCache {
	if opt.Name == "" {
		opt.Name = "brushes"
	}
	return cache.New[Color, Color, *Brush](brushAdapter{alloc}, withLimits(opt, BrushSoftLimit, BrushHardLimit))
}

var (
	errEmptyFamily = errors.New("empty font family")
	errFontSize    = errors.New("font size must be positive")
)

type fontAdapter struct{ alloc Allocator }

func (a fontAdapter) Create(k FontKey) (FontKey, *Font, error) {
	f, err := NewFont(a.alloc, k)
	return k, f, err
}

func (fontAdapter) Match(k, data FontKey) bool {
	return k.Size == data.Size &&
		k.Style == data.Style &&
		k.Quality == data.Quality &&
		strings.EqualFold(k.Family, data.Family)
}

func (fontAdapter) ValidKey(k FontKey) error {
	if strings.TrimSpace(k.Family) == "" {
		return errEmptyFamily
	}
	if !(k.Size > 0) {
		return errFontSize
	}
	return nil
}

// NewFontCache returns a cache of fonts keyed by family, size, style and
// quality. Invalid keys fail with cache.ErrInvalidKey.
func NewFontCache(alloc Allocator, opt cache.Options) *FontCache {
	if opt.Name == "" {
		opt.Name = "fonts"
	}
	return cache.New[FontKey, FontKey, *Font](fontAdapter{alloc}, withLimits(opt, FontSoftLimit, FontHardLimit))
}
