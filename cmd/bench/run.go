package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/handlecache/cache"
	pmet "github.com/IvanBrykalov/handlecache/metrics/prom"
	"github.com/IvanBrykalov/handlecache/paint"
)

func run(ctx context.Context, p params, log *slog.Logger, out io.Writer) error {
	if p.workers <= 0 {
		p.workers = 1
	}
	if p.colors <= 0 {
		return fmt.Errorf("--colors must be > 0, got %d", p.colors)
	}
	if p.zipfS <= 1 || p.zipfV < 1 {
		return fmt.Errorf("zipf needs s > 1 and v >= 1, got s=%v v=%v", p.zipfS, p.zipfV)
	}

	// ---- pprof server (on DefaultServeMux) ----
	if p.pprofAddr != "" {
		go func() {
			log.Info("pprof: serving", slog.String("addr", p.pprofAddr))
			log.Warn("pprof stopped", slog.Any("err", http.ListenAndServe(p.pprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics (own registry and mux) ----
	reg := prometheus.NewRegistry()
	penMetrics := pmet.New(reg, "handlecache", "bench", prometheus.Labels{"cache": "pens"})
	brushMetrics := pmet.New(reg, "handlecache", "bench", prometheus.Labels{"cache": "brushes"})
	if p.httpAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: p.httpAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info("metrics: serving", slog.String("addr", p.httpAddr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics server stopped", slog.Any("err", err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	tab := paint.NewHandleTable(0)
	tbOpt := paint.ToolboxOptions{
		Pens:    cache.Options{SoftLimit: p.soft, HardLimit: p.hard, MoveToFront: p.moveToFront, Metrics: penMetrics},
		Brushes: cache.Options{SoftLimit: p.soft, HardLimit: p.hard, MoveToFront: p.moveToFront, Metrics: brushMetrics},
		Logger:  log,
	}

	// ---- Build lanes ----
	lanes := make([]lane, p.workers)
	var (
		boxes   []*paint.Toolbox
		lruLn   *lruLane
		cleanup func() error
	)
	switch {
	case p.engine == engineLRU:
		penSize, brushSize := p.hard, p.hard
		if penSize <= 0 {
			penSize, brushSize = paint.PenHardLimit, paint.BrushHardLimit
		}
		lruLn = newLRULane(tab, penSize, brushSize)
		for i := range lanes {
			lanes[i] = lruLn
		}
		cleanup = lruLn.close
	case p.shared:
		tb, err := paint.NewToolbox(tab, tbOpt)
		if err != nil {
			return err
		}
		boxes = append(boxes, tb)
		for i := range lanes {
			lanes[i] = toolboxLane{tb}
		}
	default:
		for i := range lanes {
			tb, err := paint.NewToolbox(tab, tbOpt)
			if err != nil {
				return errors.Join(err, closeBoxes(boxes))
			}
			boxes = append(boxes, tb)
			lanes[i] = toolboxLane{tb}
		}
	}
	if cleanup == nil {
		cleanup = func() error { return closeBoxes(boxes) }
	}

	log.Info("bench start",
		slog.String("engine", p.engine),
		slog.Bool("shared", p.shared),
		slog.Int("workers", p.workers),
		slog.Int("colors", p.colors),
		slog.Int("hold", p.hold),
		slog.Duration("duration", p.duration),
		slog.Int64("seed", p.seed))

	// ---- Load generation ----
	var total atomic.Uint64
	runCtx, cancel := context.WithTimeout(ctx, p.duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(runCtx)
	for w := range lanes {
		ln := lanes[w]
		seed := p.seed + int64(w)*9973
		g.Go(func() error {
			return work(gctx, ln, p, seed, &total)
		})
	}
	werr := g.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	var cnt counters
	if lruLn != nil {
		cnt = lruLn.counters()
	} else {
		cnt = toolboxCounters(boxes)
	}
	cerr := cleanup()
	live := tab.Live()

	ops := total.Load()
	fmt.Fprintf(out, "engine=%s shared=%v workers=%d colors=%d hold=%d dur=%v seed=%d\n",
		p.engine, p.shared, p.workers, p.colors, p.hold, elapsed.Round(time.Millisecond), p.seed)
	fmt.Fprintf(out, "ops=%d (%.0f ops/s)\n", ops, float64(ops)/elapsed.Seconds())
	fmt.Fprintf(out, "hits=%d  misses=%d  hit-rate=%.2f%%\n", cnt.hits, cnt.misses, cnt.hitRate())
	fmt.Fprintf(out, "overflows=%d  evictions=%d  live-handles=%d\n", cnt.overflows, cnt.evictions, live)

	if err := errors.Join(werr, cerr); err != nil {
		return err
	}
	if live != 0 {
		return fmt.Errorf("%d handles leaked", live)
	}
	return nil
}

// work acquires a pen and a brush per operation and keeps the last p.hold
// pairs referenced, releasing the oldest as new ones arrive.
func work(ctx context.Context, ln lane, p params, seed int64, total *atomic.Uint64) error {
	// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
	r := rand.New(rand.NewSource(seed))
	zipf := rand.NewZipf(r, p.zipfS, p.zipfV, uint64(p.colors-1))

	ring := make([]release, 0, 2*max(p.hold, 1))
	releaseAll := func() error {
		var errs []error
		for _, rel := range ring {
			errs = append(errs, rel())
		}
		ring = ring[:0]
		return errors.Join(errs...)
	}

	for {
		select {
		case <-ctx.Done():
			return releaseAll()
		default:
		}

		c := colorAt(zipf.Uint64())
		rp, err := ln.pen(c)
		if err != nil {
			return errors.Join(err, releaseAll())
		}
		rb, err := ln.brush(c)
		if err != nil {
			return errors.Join(err, rp(), releaseAll())
		}
		total.Add(1)

		if p.hold <= 0 {
			if err := errors.Join(rb(), rp()); err != nil {
				return errors.Join(err, releaseAll())
			}
			continue
		}
		if len(ring) == cap(ring) {
			if err := errors.Join(ring[0](), ring[1]()); err != nil {
				return errors.Join(err, releaseAll())
			}
			ring = append(ring[:0], ring[2:]...)
		}
		ring = append(ring, rp, rb)
	}
}

// colorAt maps a rank to a color with alpha 0xfe, which no stock color uses.
func colorAt(i uint64) paint.Color {
	return paint.Color(0xfe000000 | uint32(i&0xffffff))
}

func closeBoxes(boxes []*paint.Toolbox) error {
	var errs []error
	for _, tb := range boxes {
		errs = append(errs, tb.Close())
	}
	return errors.Join(errs...)
}
