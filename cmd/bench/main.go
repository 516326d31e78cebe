// Command bench runs a synthetic drawing workload against the paint caches and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/IvanBrykalov/handlecache/cache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bench",
		Short:        "Load generator for ref-counted handle caches",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

// params holds every flag of the run command.
type params struct {
	soft, hard  int
	moveToFront int

	workers  int
	duration time.Duration
	colors   int
	hold     int
	zipfS    float64
	zipfV    float64
	seed     int64
	shared   bool
	engine   string

	httpAddr  string
	pprofAddr string
	logLevel  string
}

func newRunCmd() *cobra.Command {
	var p params
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Drive pens and brushes from concurrent workers",
		Long: `Each worker repeatedly acquires a pen and a brush for a Zipf-distributed color
and keeps the last --hold pairs referenced before releasing them. With the
refcache engine every worker owns its toolbox unless --shared is set; the lru
engine is an unpinned baseline shared by all workers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(p.logLevel)
			if err != nil {
				return err
			}
			if p.engine != engineRefCache && p.engine != engineLRU {
				return fmt.Errorf("unknown engine %q (use %s or %s)", p.engine, engineRefCache, engineLRU)
			}
			return run(cmd.Context(), p, log, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.IntVar(&p.soft, "soft", 0, "soft limit per cache (0 = paint defaults)")
	f.IntVar(&p.hard, "hard", 0, "hard limit per cache (0 = paint defaults)")
	f.IntVar(&p.moveToFront, "move-to-front", cache.DefaultMoveToFront, "list steps before a hit is promoted")
	f.IntVar(&p.workers, "workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
	f.DurationVar(&p.duration, "duration", 10*time.Second, "benchmark duration")
	f.IntVar(&p.colors, "colors", 256, "number of distinct colors")
	f.IntVar(&p.hold, "hold", 4, "pen/brush pairs each worker keeps referenced")
	f.Float64Var(&p.zipfS, "zipf-s", 1.1, "Zipf s > 1 (skew)")
	f.Float64Var(&p.zipfV, "zipf-v", 1.0, "Zipf v >= 1")
	f.Int64Var(&p.seed, "seed", time.Now().UnixNano(), "random seed")
	f.BoolVar(&p.shared, "shared", false, "share one toolbox between all workers")
	f.StringVar(&p.engine, "engine", engineRefCache, "cache engine: refcache | lru")
	f.StringVar(&p.httpAddr, "http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	f.StringVar(&p.pprofAddr, "pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
	f.StringVar(&p.logLevel, "log-level", "info", "debug | info | warn | error")
	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})), nil
}
