package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/scc/internal/config"
	"git.home.luguber.info/inful/scc/internal/logfields"
	"git.home.luguber.info/inful/scc/internal/metrics"
	"git.home.luguber.info/inful/scc/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	File   string `arg:"" type:"existingfile" help:"Source document"`
	Output string `short:"o" help:"Output file rewritten after every successful build"`
	Target string `short:"t" help:"Output dialect, one of: ${targets} (default from config)"`
	Addr   string `help:"Serve the latest output on this address, e.g. 127.0.0.1:1314 (default from config)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	target := cfg.Render.Target
	if w.Target != "" {
		if target, err = config.NormalizeTarget(w.Target); err != nil {
			return err
		}
	}
	c, closeFn, err := newCompiler(g, cfg, target, false)
	if err != nil {
		return err
	}
	defer closeFn()

	watcher, err := watch.New(c, w.File, watch.Options{
		Debounce: cfg.Watch.Debounce,
		Output:   w.Output,
		Recorder: g.Recorder,
		Logger:   g.Logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := w.Addr
	if addr == "" {
		addr = cfg.Watch.Addr
	}
	if addr != "" {
		srv, err := watch.Listen(ctx, addr, watcher.Handler(cfg.Metrics.Path, metricsHandler(g, cfg)), g.Logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				g.Logger.Warn("preview server shutdown failed", logfields.Error(err))
			}
		}()
	}
	return watcher.Run(ctx)
}

func metricsHandler(g *Global, cfg *config.Config) http.Handler {
	if !cfg.Metrics.Enabled || g.Registry == nil {
		return nil
	}
	return metrics.HTTPHandler(g.Registry)
}
