package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/blockflow/internal/api"
	"github.com/gyaneshwarpardhi/blockflow/internal/catalog"
	"github.com/gyaneshwarpardhi/blockflow/internal/config"
	"github.com/gyaneshwarpardhi/blockflow/internal/editor"
	"github.com/gyaneshwarpardhi/blockflow/internal/graph"
	"github.com/gyaneshwarpardhi/blockflow/internal/metrics"
	"github.com/gyaneshwarpardhi/blockflow/internal/render"
	"github.com/gyaneshwarpardhi/blockflow/internal/rules"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	cfgPath := flag.String("config", "configs/editor.yaml", "Path to editor YAML config")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath, logger)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// ── Connection rules ─────────────────────────────────────────────────────
	validator := rules.NewValidator(rules.Build(cfg.Rules))
	slog.Info("connection rules loaded", "forbidden", validator.Rules().Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Block catalog ────────────────────────────────────────────────────────
	client := &http.Client{Timeout: time.Duration(cfg.Catalog.TimeoutMs) * time.Millisecond}
	kinds := catalog.NewRegistry()
	renderers := render.NewRegistry()
	blocks := catalog.NewLoader(catalog.NewSource(cfg.Catalog.Source, client), logger)
	blocks.Subscribe(kinds.Replace)
	blocks.Subscribe(renderers.Replace)
	loadCtx := ctx
	if cfg.Catalog.TimeoutMs > 0 {
		var loadCancel context.CancelFunc
		loadCtx, loadCancel = context.WithTimeout(ctx, time.Duration(cfg.Catalog.TimeoutMs)*time.Millisecond)
		defer loadCancel()
	}
	blocks.Start(loadCtx)

	// ── Editors ──────────────────────────────────────────────────────────────
	editors := editor.NewManager(ctx, editor.Deps{
		Validator: validator,
		Renderers: renderers,
		Conf:      cfg.Editor,
		Origin:    originOf(cfg.Canvas),
		Logger:    logger,
	})

	// ── Hot-reload watcher ───────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		set := rules.Build(newCfg.Rules)
		validator.Swap(set)
		metrics.RuleReloads.WithLabelValues("ok").Inc()
		slog.Info("connection rules hot-reloaded", "forbidden", set.Len())
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	handler := api.New(api.Deps{
		Editors:     editors,
		Catalog:     blocks,
		Kinds:       kinds,
		Validator:   validator,
		Config:      loader,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr, "catalog", cfg.Catalog.Source)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	editors.Shutdown()
	cancel() // stop event loops
	slog.Info("goodbye")
}

func originOf(c config.CanvasConf) graph.Position {
	if c.OriginOffset == nil {
		return graph.Position{Y: config.DefaultOriginY}
	}
	return graph.Position{X: c.OriginOffset.X, Y: c.OriginOffset.Y}
}
