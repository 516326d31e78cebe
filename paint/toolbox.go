package paint

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/IvanBrykalov/handlecache/cache"
)

// ErrToolboxClosed is returned by Toolbox lookups after Close.
var ErrToolboxClosed = errors.New("paint: toolbox closed")

// ToolboxOptions configures a Toolbox. Zero values are safe; each cache gets
// its own default limits and the toolbox logger when Logger is unset.
type ToolboxOptions struct {
	Pens    cache.Options
	Brushes cache.Options
	Fonts   cache.Options

	// Logger is the parent logger; nil => discard.
	Logger *slog.Logger
}

// Toolbox bundles the pen, brush and font caches used by one worker, plus
// stock pens and brushes for known colors. Stock objects are created once,
// handed out through raw scopes, and never counted.
//
// A Toolbox is safe for concurrent use, but giving each worker its own keeps
// lock contention and working sets local.
type Toolbox struct {
	id      uuid.UUID
	log     *slog.Logger
	closed  atomic.Bool
	pens    *PenCache
	brushes *BrushCache
	fonts   *FontCache

	stockPens    map[Color]*Pen
	stockBrushes map[Color]*Brush
}

// NewToolbox builds the caches over alloc and allocates the stock objects.
func NewToolbox(alloc Allocator, opt ToolboxOptions) (*Toolbox, error) {
	id := uuid.New()
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(slog.String("toolbox", id.String()))

	t := &Toolbox{
		id:           id,
		log:          log,
		pens:         NewPenCache(alloc, withLogger(opt.Pens, log)),
		brushes:      NewBrushCache(alloc, withLogger(opt.Brushes, log)),
		fonts:        NewFontCache(alloc, withLogger(opt.Fonts, log)),
		stockPens:    make(map[Color]*Pen, len(knownColors)),
		stockBrushes: make(map[Color]*Brush, len(knownColors)),
	}
	for c := range knownColors {
		p, err := NewPen(alloc, c)
		if err != nil {
			return nil, errors.Join(err, t.Close())
		}
		t.stockPens[c] = p
		b, err := NewBrush(alloc, c)
		if err != nil {
			return nil, errors.Join(err, t.Close())
		}
		t.stockBrushes[c] = b
	}
	log.Debug("toolbox ready", slog.Int("stock", len(t.stockPens)+len(t.stockBrushes)))
	return t, nil
}

func withLogger(opt cache.Options, log *slog.Logger) cache.Options {
	if opt.Logger == nil {
		opt.Logger = log
	}
	return opt
}

// ID identifies the toolbox in logs.
func (t *Toolbox) ID() uuid.UUID { return t.id }

// Pen returns a one-pixel solid pen for c. Known colors are served from
// stock without touching the cache.
func (t *Toolbox) Pen(c Color) (PenScope, error) {
	if t.closed.Load() {
		return PenScope{}, ErrToolboxClosed
	}
	if p, ok := t.stockPens[c]; ok {
		return cache.NewScope[Color](p), nil
	}
	return t.pens.GetEntry(c)
}

// Brush returns a solid brush for c. Known colors are served from stock.
func (t *Toolbox) Brush(c Color) (BrushScope, error) {
	if t.closed.Load() {
		return BrushScope{}, ErrToolboxClosed
	}
	if b, ok := t.stockBrushes[c]; ok {
		return cache.NewScope[Color](b), nil
	}
	return t.brushes.GetEntry(c)
}

// Font returns a font for k.
func (t *Toolbox) Font(k FontKey) (FontScope, error) {
	if t.closed.Load() {
		return FontScope{}, ErrToolboxClosed
	}
	return t.fonts.GetEntry(k)
}

// ToolboxStats groups the per-cache counters.
type ToolboxStats struct {
	Pens    cache.Stats
	Brushes cache.Stats
	Fonts   cache.Stats
}

// Stats returns a snapshot of every cache in the toolbox.
func (t *Toolbox) Stats() ToolboxStats {
	return ToolboxStats{
		Pens:    t.pens.Stats(),
		Brushes: t.brushes.Stats(),
		Fonts:   t.fonts.Stats(),
	}
}

// Close disposes the caches and the stock objects. Scopes obtained from the
// toolbox must be closed first. Calling Close again is a no-op.
func (t *Toolbox) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	errs := []error{t.pens.Close(), t.brushes.Close(), t.fonts.Close()}
	for _, p := range t.stockPens {
		errs = append(errs, p.Close())
	}
	for _, b := range t.stockBrushes {
		errs = append(errs, b.Close())
	}
	err := errors.Join(errs...)
	if err != nil {
		t.log.Warn("toolbox close", slog.Any("err", err))
	} else {
		t.log.Debug("toolbox closed")
	}
	return err
}
