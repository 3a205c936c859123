package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdwise/internal/config"
	"github.com/mamadbah2/herdwise/internal/repository/badgerstore"
	"github.com/mamadbah2/herdwise/internal/repository/mongodb"
	"github.com/mamadbah2/herdwise/internal/repository/sheets"
	"github.com/mamadbah2/herdwise/internal/scheduler"
	"github.com/mamadbah2/herdwise/internal/server/handlers"
	"github.com/mamadbah2/herdwise/internal/server/router"
	reportingsvc "github.com/mamadbah2/herdwise/internal/service/reporting"
	"github.com/mamadbah2/herdwise/internal/service/state"
	syncsvc "github.com/mamadbah2/herdwise/internal/service/sync"
	"github.com/mamadbah2/herdwise/pkg/clients/advisor"
	"github.com/mamadbah2/herdwise/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	local, err := badgerstore.Open(cfg.Offline.Dir, baseLogger.Named("repo.badger"))
	if err != nil {
		baseLogger.Fatal("failed to open local store", zap.Error(err))
	}
	defer func() {
		if err := local.Close(); err != nil {
			baseLogger.Error("failed to close local store", zap.Error(err))
		}
	}()

	remote, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := remote.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	probe := syncsvc.NewProbe(remote, 3*time.Second, false, baseLogger.Named("svc.sync.probe"))
	registry := syncsvc.NewRegistry(cfg.Sync.OptimisticWindow)

	provider := state.NewProvider(local, registry, probe.Online, baseLogger.Named("svc.state"))
	defer provider.Close()

	session := syncsvc.Session{UserID: cfg.Sync.UserID}
	listener := syncsvc.NewListener(remote, provider, registry, session, baseLogger.Named("svc.sync.listener"))
	replayer := syncsvc.NewReplayer(remote, local, session, baseLogger.Named("svc.sync.replayer"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Startup branch: hydrate from the remote store when reachable,
	// otherwise seed the last known-good snapshots out of the cache.
	startupCtx, cancelStartup := context.WithTimeout(ctx, 30*time.Second)
	if online, _ := probe.Check(startupCtx); online {
		// Drain anything a previous offline run left queued before pulling
		// the remote truth back in.
		if applied, err := replayer.Replay(startupCtx); err != nil {
			baseLogger.Error("startup offline replay failed", zap.Error(err))
		} else if applied > 0 {
			baseLogger.Info("startup offline replay complete", zap.Int("applied", applied))
		}
		if err := listener.RefreshAll(startupCtx); err != nil {
			baseLogger.Error("initial remote hydration failed", zap.Error(err))
		}
	} else {
		baseLogger.Warn("remote store unreachable, starting from offline cache")
		if err := provider.SeedFromCache(startupCtx); err != nil {
			baseLogger.Error("offline cache seed failed", zap.Error(err))
		}
	}
	cancelStartup()

	listener.Start(ctx)

	// Reporting export stays off unless sheets credentials are configured.
	var reportingService *reportingsvc.Service
	if cfg.SheetsEnabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportingService = reportingsvc.NewService(sheetsRepo, provider, baseLogger.Named("svc.reporting"))
	} else {
		baseLogger.Warn("sheets credentials missing, daily stats export disabled")
	}

	var aiClient advisor.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = advisor.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("advisory client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, advisory endpoint disabled")
	}

	stateHandler := handlers.NewStateHandler(provider, local, aiClient, baseLogger.Named("handlers.state"))
	engine := router.New(stateHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, reportingService, probe, replayer, listener, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
