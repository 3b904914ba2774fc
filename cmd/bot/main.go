package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/adiwinata/gudangbot/internal/catalog"
	"github.com/adiwinata/gudangbot/internal/config"
	"github.com/adiwinata/gudangbot/internal/delivery/telegram"
	"github.com/adiwinata/gudangbot/internal/repository/mongodb"
	"github.com/adiwinata/gudangbot/internal/repository/sheets"
	"github.com/adiwinata/gudangbot/internal/scheduler"
	"github.com/adiwinata/gudangbot/internal/server/handlers"
	"github.com/adiwinata/gudangbot/internal/server/router"
	"github.com/adiwinata/gudangbot/internal/service/conversation"
	"github.com/adiwinata/gudangbot/internal/service/transactions"
	"github.com/adiwinata/gudangbot/pkg/clients/qrscan"
	"github.com/adiwinata/gudangbot/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location := loadLocation(cfg.Timezone, baseLogger)

	sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
	if err != nil {
		baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
	}

	// The audit trail is optional; without a Mongo URI the sheet stays the
	// only store.
	var auditRepo mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		auditRepo = mongoRepo
		baseLogger.Info("transaction audit trail enabled")
	}

	catalogSvc := catalog.NewService(sheetsRepo, cfg.Sheets.SparepartSheet, catalog.HeaderCandidates{
		PartID:   cfg.Catalog.PartIDHeaders,
		Name:     cfg.Catalog.NameHeaders,
		Location: cfg.Catalog.LocationHeaders,
		Visual:   cfg.Catalog.VisualHeaders,
	}, baseLogger.Named("catalog"))

	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := catalogSvc.Refresh(warmCtx); err != nil {
		// The conversations degrade gracefully without a catalog.
		baseLogger.Warn("initial catalog load failed", zap.Error(err))
	}
	warmCancel()

	writer := transactions.NewService(sheetsRepo, auditRepo, cfg.Sheets.TransactionSheet, location, baseLogger.Named("svc.transactions"))
	sessions := conversation.NewSessionManager()
	dispatcher := conversation.NewService(sessions, catalogSvc, writer, cfg.Conversation, cfg.Sheets.TransactionSheet, baseLogger.Named("svc.conversation"))

	var scanner qrscan.Scanner
	if cfg.QR.DecodeURL != "" {
		scanner = qrscan.NewClient(cfg.QR.DecodeURL)
		baseLogger.Info("qr photo input enabled")
	} else {
		baseLogger.Warn("qr decode url missing, photo input disabled")
	}

	bot, err := telegram.New(cfg.Telegram, dispatcher, scanner, baseLogger.Named("delivery.telegram"))
	if err != nil {
		baseLogger.Fatal("failed to init telegram bot", zap.Error(err))
	}
	baseLogger.Info("telegram bot ready", zap.String("username", bot.Username()))

	opsHandler := handlers.NewOpsHandler(catalogSvc, baseLogger.Named("handlers.ops"))
	engine := router.New(opsHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, catalogSvc, sessions, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			baseLogger.Error("telegram polling stopped", zap.Error(err))
		}
	}()

	go func() {
		baseLogger.Info("ops server starting", zap.String("port", cfg.Server.Port))
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

// loadLocation resolves the configured zone, falling back to a fixed UTC+7
// offset when the tz database is unavailable on the host.
func loadLocation(name string, log *zap.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("timezone load failed, timestamps will use fixed UTC+7 (WIB) instead of the requested zone",
			zap.String("timezone", name), zap.Error(err))
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}
