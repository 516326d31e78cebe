package paint

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/handlecache/cache"
)

func TestToolbox_StockObjects(t *testing.T) {
	t.Parallel()

	tab := NewHandleTable(0)
	tb, err := NewToolbox(tab, ToolboxOptions{})
	require.NoError(t, err)
	stock := tab.Live()
	require.Equal(t, 2*len(knownColors), stock)

	p, err := tb.Pen(RGB(0xff, 0, 0))
	require.NoError(t, err)
	require.Equal(t, -1, p.RefCount(), "stock pens use raw scopes")
	require.False(t, p.Cached())
	require.NoError(t, p.Close())

	b, err := tb.Brush(RGB(0xff, 0xff, 0xff))
	require.NoError(t, err)
	require.Equal(t, -1, b.RefCount())
	require.NoError(t, b.Close())

	require.Equal(t, stock, tab.Live(), "no handles allocated for known colors")
	require.Zero(t, tb.Stats().Pens.Misses)

	require.NoError(t, tb.Close())
	require.Equal(t, 0, tab.Live())
}

func TestToolbox_CachedObjects(t *testing.T) {
	t.Parallel()

	tab := NewHandleTable(0)
	tb, err := NewToolbox(tab, ToolboxOptions{
		Brushes: cache.Options{SoftLimit: 1, HardLimit: 2},
	})
	require.NoError(t, err)
	require.NotEqual(t, tb.ID().String(), "")

	c := RGB(0x12, 0x34, 0x56)
	p1, err := tb.Pen(c)
	require.NoError(t, err)
	p2, err := tb.Pen(c)
	require.NoError(t, err)
	require.Same(t, p1.Object(), p2.Object())
	require.NoError(t, p1.Close())
	require.NoError(t, p2.Close())

	f, err := tb.Font(FontKey{Family: "Consolas", Size: 10})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	for i := 0; i < 4; i++ {
		s, err := tb.Brush(RGB(uint8(i), 1, 1))
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}

	st := tb.Stats()
	require.EqualValues(t, 1, st.Pens.Hits)
	require.EqualValues(t, 1, st.Pens.Misses)
	require.EqualValues(t, 1, st.Fonts.Misses)
	require.LessOrEqual(t, st.Brushes.Entries, 2)
	require.NotZero(t, st.Brushes.Evictions)

	require.NoError(t, tb.Close())
	require.NoError(t, tb.Close())
	require.Equal(t, 0, tab.Live())

	_, err = tb.Pen(c)
	require.ErrorIs(t, err, ErrToolboxClosed)
}

func TestToolbox_QuotaAtConstruction(t *testing.T) {
	t.Parallel()

	tab := NewHandleTable(3)
	_, err := NewToolbox(tab, ToolboxOptions{})
	require.ErrorIs(t, err, ErrHandleQuota)
	require.Equal(t, 0, tab.Live(), "partially built stock is released")
}

// Per-worker toolboxes over one shared handle table must release every handle.
func TestToolbox_PerWorker(t *testing.T) {
	t.Parallel()

	tab := NewHandleTable(0)
	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < 8; w++ {
		seed := int64(w)
		g.Go(func() error {
			tb, err := NewToolbox(tab, ToolboxOptions{})
			if err != nil {
				return err
			}
			r := rand.New(rand.NewSource(seed))
			held := make([]*PenScope, 0, 80)
			for i := 0; i < 2000; i++ {
				s, err := tb.Pen(RGB(uint8(r.Intn(100)), 0, 7))
				if err != nil {
					return err
				}
				held = append(held, &s)
				if len(held) == cap(held) {
					for j := range held {
						if err := held[j].Close(); err != nil {
							return err
						}
					}
					held = held[:0]
				}
			}
			for j := range held {
				if err := held[j].Close(); err != nil {
					return err
				}
			}
			return tb.Close()
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, 0, tab.Live())
}
