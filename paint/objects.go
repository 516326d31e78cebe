package paint

import (
	"sync"
)

// owned is the handle bookkeeping shared by Pen, Brush and Font.
// The handle is returned to its allocator exactly once.
type owned struct {
	alloc  Allocator
	handle Handle
	once   sync.Once
	err    error
}

func (o *owned) init(alloc Allocator, kind Kind) error {
	h, err := alloc.Alloc(kind)
	if err != nil {
		return err
	}
	o.alloc, o.handle = alloc, h
	return nil
}

// Handle returns the underlying handle; it is not valid after Close.
func (o *owned) Handle() Handle { return o.handle }

func (o *owned) release() error {
	o.once.Do(func() { o.err = o.alloc.Free(o.handle) })
	return o.err
}

// Pen is a one-pixel solid line drawing object.
type Pen struct {
	owned
	color Color
	width float32
}

// NewPen allocates a pen handle for c.
func NewPen(alloc Allocator, c Color) (*Pen, error) {
	p := &Pen{color: c, width: 1}
	if err := p.init(alloc, KindPen); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pen) Color() Color   { return p.color }
func (p *Pen) Width() float32 { return p.width }
func (p *Pen) Close() error   { return p.release() }

// Brush is a solid fill.
type Brush struct {
	owned
	color Color
}

// NewBrush allocates a brush handle for c.
func NewBrush(alloc Allocator, c Color) (*Brush, error) {
	b := &Brush{color: c}
	if err := b.init(alloc, KindBrush); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Brush) Color() Color { return b.color }
func (b *Brush) Close() error { return b.release() }

// FontStyle is a bit set of font style flags.
type FontStyle uint8

const (
	StyleBold FontStyle = 1 << iota
	StyleItalic
	StyleUnderline
	StyleStrikeout
)

const StyleRegular FontStyle = 0

// FontQuality selects the rasterization quality of a font handle.
type FontQuality uint8

const (
	QualityDefault FontQuality = iota
	QualityDraft
	QualityProof
	QualityNonAntialiased
	QualityAntialiased
	QualityClearType
)

// FontKey describes a font. Family names compare case-insensitively.
type FontKey struct {
	Family  string
	Size    float32 // em size in points
	Style   FontStyle
	Quality FontQuality
}

// Font is a font handle created for one FontKey.
type Font struct {
	owned
	key FontKey
}

// NewFont allocates a font handle for k.
func NewFont(alloc Allocator, k FontKey) (*Font, error) {
	f := &Font{key: k}
	if err := f.init(alloc, KindFont); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Font) Key() FontKey { return f.key }
func (f *Font) Close() error { return f.release() }
