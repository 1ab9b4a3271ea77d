// Entry point for the Garuda Spot HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/accounts"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/config"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/dbopen"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/forum"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/merch"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/news"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/observability"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/schedule"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/shield"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/squad"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/ticket"
	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/web"
)

func main() {
	configPath := flag.String("config", "garudaspot.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Site DB with every module's schema applied up front.
	db, err := dbopen.Open(cfg.DBPath,
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(accounts.Schema),
		dbopen.WithSchema(forum.Schema),
		dbopen.WithSchema(news.Schema),
		dbopen.WithSchema(merch.Schema),
		dbopen.WithSchema(schedule.Schema),
		dbopen.WithSchema(squad.Schema),
		dbopen.WithSchema(ticket.Schema),
	)
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	events := observability.NewEventLogger(db)
	if err := events.Init(); err != nil {
		slog.Error("events init", "error", err)
		os.Exit(1)
	}
	if err := observability.Cleanup(ctx, db, cfg.Events.RetentionDays); err != nil {
		slog.Warn("events cleanup", "error", err)
	}

	auth := accounts.NewService(db)
	if cfg.Admin.Password != "" {
		if err := auth.SeedAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			slog.Error("seed admin", "error", err)
			os.Exit(1)
		}
	}

	forumStore := forum.NewStore(db)
	if err := forumStore.EnsureDefaultCategories(ctx); err != nil {
		slog.Error("seed categories", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}
	r.Use(auth.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		web.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/news", http.StatusFound)
	})

	auth.RegisterHTTP(r)
	forum.NewHandler(forumStore, events).RegisterHTTP(r)
	news.NewHandler(news.NewStore(db), events).RegisterHTTP(r)
	merch.NewHandler(merch.NewStore(db), events).RegisterHTTP(r)
	schedule.NewHandler(schedule.NewStore(db), events).RegisterHTTP(r)
	squad.NewHandler(squad.NewStore(db), events).RegisterHTTP(r)
	ticket.NewHandler(ticket.NewStore(db), events).RegisterHTTP(r)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
