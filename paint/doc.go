// Package paint provides ref-counted caches of drawing objects (pens, brushes
// and fonts) backed by scarce handles from an Allocator.
//
// Each object owns one handle and frees it on Close. The caches bound how many
// handles stay resident while never disposing an object that a caller still
// holds through a scope:
//
//	tb, err := paint.NewToolbox(paint.NewHandleTable(0), paint.ToolboxOptions{})
//	if err != nil { ... }
//	defer tb.Close()
//
//	pen, err := tb.Pen(paint.RGB(0x33, 0x66, 0x99))
//	if err != nil { ... }
//	defer pen.Close()
//	draw(pen.Object())
//
// Use one Toolbox per worker goroutine rather than sharing one.
package paint
