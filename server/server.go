package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cmacbench/cache"
	"cmacbench/config"
	"cmacbench/db"
	"cmacbench/logger"
	"cmacbench/repository"

	"github.com/gorilla/mux"
)

// Start initializes and starts the reporting HTTP server: a read-only
// JSON API over the dataset inventory plus a websocket endpoint that
// streams prep progress events.
func Start(cfg *config.Config) {
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Redis is only needed for the progress stream; the API works
	// without it.
	redisOK := true
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Failed to connect to Redis, progress stream disabled", logger.ErrorField(err))
		redisOK = false
	} else {
		defer cache.CloseRedis()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	apiHandler := NewAPIHandler(
		repository.NewMySQLSampleRepository(),
		repository.NewMySQLQCReportRepository(),
		repository.NewMySQLSplitRepository(),
		repository.NewGormRunRepository(),
	)

	hub := NewProgressHub()
	go hub.Run(ctx)
	if redisOK {
		go hub.PumpFromRedis(ctx)
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", apiHandler.HealthzHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/groups", apiHandler.GetGroupsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/groups/{group}/samples", apiHandler.GetGroupSamplesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/groups/{group}/stats", apiHandler.GetGroupStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/groups/{group}/qc", apiHandler.GetQCReportsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/groups/{group}/splits/{unit}", apiHandler.GetSplitsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/runs", apiHandler.GetRunsHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws/progress", hub.ServeWS)

	server.Handler = router

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", logger.ErrorField(err))
		}
		cancel()
		close(done)
	}()

	logger.Info("Reporting server listening", logger.String("addr", cfg.ServerAddr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", logger.ErrorField(err))
	}
	<-done
}
