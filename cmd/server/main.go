/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ARL contribution calculator server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Build the logger
  3. Open the ledger store (SQLite or memory)
  4. Create the calculator and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (PORT, default: 8080)
  -store   Ledger backend, sqlite or memory (STORE, default: sqlite)
  -db      SQLite database path (DB_PATH, default: :memory:)
  -log     Log level (LOG_LEVEL, default: info)

SESSION MODEL:
  One process is one calculator session. With the default ":memory:"
  database nothing survives a restart.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Default: SQLite in memory
  ./server

  # Plain in-memory store
  ./server -store=memory

  # Keep the ledger in a file while debugging
  ./server -db="./data/arl.db"

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment variables
  - calculator/calculator.go: Core facade
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/arl-calculator/api"
	"github.com/warp/arl-calculator/calculator"
	"github.com/warp/arl-calculator/config"
	"github.com/warp/arl-calculator/ledger"
	"github.com/warp/arl-calculator/ledger/store"
	"github.com/warp/arl-calculator/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	backend := flag.String("store", cfg.Store, "Ledger backend: sqlite or memory")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	logLevel := flag.String("log", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.Parse()

	logger := api.NewLogger(*logLevel)
	defer logger.Sync()

	// Initialize store
	st, audit, closeStore, err := openStore(*backend, *dbPath)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.String("store", *backend), zap.Error(err))
	}
	defer closeStore()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown export timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	// Initialize handler
	calc := calculator.New(ledger.New(st), audit,
		calculator.WithLocation(loc),
		calculator.WithAuditErrorHandler(func(action ledger.AuditAction, err error) {
			logger.Warn("audit entry dropped", zap.String("action", string(action)), zap.Error(err))
		}),
	)
	handler := api.NewHandler(calc, api.NewMetrics(), logger)

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.AllowedOrigins})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", *port),
			zap.String("store", *backend),
			zap.String("api", fmt.Sprintf("http://localhost:%d/api", *port)),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}

// openStore builds the ledger backend named by kind.
func openStore(kind, dbPath string) (ledger.Store, ledger.AuditLog, func(), error) {
	switch kind {
	case config.StoreMemory:
		m := store.NewMemory()
		return m, m, func() {}, nil
	case config.StoreSQLite:
		s, err := sqlite.New(dbPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, func() { s.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q (want %s or %s)", kind, config.StoreSQLite, config.StoreMemory)
	}
}
