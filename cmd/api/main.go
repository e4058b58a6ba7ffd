package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/grana-app/backend/internal/apperror"
	"github.com/grana-app/backend/internal/config"
	"github.com/grana-app/backend/internal/handler"
	"github.com/grana-app/backend/internal/logger"
	"github.com/grana-app/backend/internal/model"
	"github.com/grana-app/backend/internal/scheduler"
	"github.com/grana-app/backend/internal/service"
	"github.com/grana-app/backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	slogger := logger.Logger()

	st, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer cleanup()

	if err := bootstrap(context.Background(), st, cfg, slogger); err != nil {
		log.Fatalf("Failed to bootstrap document: %v", err)
	}

	// Services
	transactionService := service.NewTransactionService(st)
	planningService := service.NewPlanningService(st)
	assetService := service.NewAssetService(st)
	categoryService := service.NewCategoryService(st)
	pendingService := service.NewPendingService(st)
	importService := service.NewImportService(st)
	dashboardService := service.NewDashboardService(st)

	// Handlers
	transactionHandler := handler.NewTransactionHandler(transactionService)
	incomeHandler := handler.NewPlanningHandler(planningService, model.TransactionTypeIncome)
	expenseHandler := handler.NewPlanningHandler(planningService, model.TransactionTypeExpense)
	assetHandler := handler.NewAssetHandler(assetService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	pendingHandler := handler.NewPendingHandler(pendingService)
	importHandler := handler.NewImportHandler(importService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(handler.RequestIDContext)
	// CORS - allow frontend origin from env or default
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Dashboard
	r.Get("/api/dashboard", dashboardHandler.Summary)
	r.Get("/api/gamification", dashboardHandler.Gamification)

	// Transactions
	r.Get("/api/transactions", transactionHandler.List)
	r.Post("/api/transactions", transactionHandler.Create)
	r.Put("/api/transactions/{id}", transactionHandler.Update)
	r.Delete("/api/transactions/{id}", transactionHandler.Delete)

	// Planned incomes and expenses
	mountPlanning(r, "/api/planned-incomes", incomeHandler)
	mountPlanning(r, "/api/planned-expenses", expenseHandler)

	// Assets
	r.Get("/api/assets", assetHandler.List)
	r.Post("/api/assets", assetHandler.Create)
	r.Put("/api/assets/{id}", assetHandler.Update)
	r.Delete("/api/assets/{id}", assetHandler.Delete)

	// Categories
	r.Get("/api/categories", categoryHandler.List)
	r.Post("/api/categories", categoryHandler.Create)
	r.Put("/api/categories/{id}", categoryHandler.Update)
	r.Delete("/api/categories/{id}", categoryHandler.Delete)

	// Statement import and the pending review queue
	r.Post("/api/import", importHandler.Import)
	r.Get("/api/pending", pendingHandler.List)
	r.Post("/api/pending/{id}/resolve", pendingHandler.Resolve)

	// Recurrence rollover scheduler
	var rolloverScheduler *scheduler.Scheduler
	if cfg.RolloverEnabled {
		schedCfg := scheduler.Config{
			Schedule: cfg.RolloverSchedule,
			Timeout:  cfg.RolloverTimeout,
			Enabled:  cfg.RolloverEnabled,
		}
		rolloverScheduler = scheduler.New(schedCfg, planningService, slogger)
		if err := rolloverScheduler.Start(); err != nil {
			slogger.Error("Failed to start rollover scheduler", slog.String("error", err.Error()))
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slogger.Info("Shutting down server...")

		if rolloverScheduler != nil {
			ctx := rolloverScheduler.Stop()
			<-ctx.Done()
			slogger.Info("Scheduler stopped")
		}

		if err := server.Shutdown(context.Background()); err != nil {
			slogger.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("Server failed: %v", err)
	}
}

func mountPlanning(r chi.Router, prefix string, h *handler.PlanningHandler) {
	r.Get(prefix, h.List)
	r.Post(prefix, h.Create)
	r.Put(prefix+"/{id}", h.Update)
	r.Delete(prefix+"/{id}", h.Delete)
	r.Post(prefix+"/{id}/realize", h.Realize)
}

// openStore picks the persistence backend from configuration.
func openStore(cfg *config.Config) (service.DocumentStore, func(), error) {
	if cfg.StorageBackend == "memory" {
		return store.NewMemoryStore(), func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	pg := store.NewPostgresStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pg.Init(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return pg, func() { _ = db.Close() }, nil
}

// bootstrap makes sure a document exists: an empty store is filled from
// the legacy export when one is configured, otherwise with the seed.
func bootstrap(ctx context.Context, st service.DocumentStore, cfg *config.Config, slogger *slog.Logger) error {
	_, err := st.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}

	now := time.Now().UTC()
	doc := store.Seed(now)

	if cfg.LegacyDataFile != "" {
		raw, err := os.ReadFile(cfg.LegacyDataFile)
		if err != nil {
			return err
		}
		doc, err = store.FromLegacy(raw, now)
		if err != nil {
			return err
		}
		slogger.Info("Migrated legacy data", slog.String("file", cfg.LegacyDataFile))
	} else {
		slogger.Info("Seeded new document")
	}

	return st.Save(ctx, doc)
}
