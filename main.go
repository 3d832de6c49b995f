// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"storeadmin/internal/activity"
	"storeadmin/internal/api"
	"storeadmin/internal/cart"
	"storeadmin/internal/catalog"
	"storeadmin/internal/config"
	"storeadmin/internal/dashboard"
	"storeadmin/internal/gateway"
	"storeadmin/internal/kvstore"
	"storeadmin/internal/localstore"
	"storeadmin/internal/logger"
	"storeadmin/internal/user"
)

type App struct {
	addr          string
	mux           *http.ServeMux
	connections   sync.WaitGroup
	totalRequests int64
}

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()

	// Step 2: Setup logging
	loggerConfig := config.LoggerConfig()
	if err := logger.SetupLogger(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Only NOW is logging safe to use!
	logger.LogInfo("Environment loaded. Logger ready.")

	config.ConfigureStore()
	config.LoadCORSConfig()
	config.LogCurrentEnvironment()

	// Step 3: Open the durable backend for client-owned state
	backend, err := openBackend()
	if err != nil {
		logger.LogFatal("Failed to open %s storage backend: %v", config.StorageBackend(), err)
	}
	defer backend.Close()

	// Step 4: Wire the stores
	adapter := localstore.NewAdapter(backend)
	remote := gateway.NewClient(config.APIBaseURL())

	catalogStore := catalog.NewStore(remote, adapter)
	categories := catalog.NewCategories(remote)
	cartStore := cart.NewStore(remote, adapter)
	activityLog := activity.NewLog(adapter)
	aggregator := dashboard.NewAggregator(catalogStore, categories)
	users := user.NewStore(remote)

	server := &api.Server{
		Catalog:       catalogStore,
		Categories:    categories,
		Cart:          cartStore,
		Activity:      activityLog,
		Dashboard:     aggregator,
		Users:         users,
		Gateway:       remote,
		DefaultUserID: config.DefaultUserID(),
	}

	// Step 5: Run server
	app := &App{
		addr: config.ServerAddress(),
		mux:  routes(server),
	}
	app.Run()
}

// routes mounts the API surface plus a health probe.
func routes(server *api.Server) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.Handle("/api/", server.Routes())

	return mux
}

// openBackend picks the durable medium from configuration.
func openBackend() (kvstore.Store, error) {
	switch config.StorageBackend() {
	case "sqlite":
		return kvstore.NewSQLiteStore(config.SQLitePath())
	case "redis":
		return kvstore.NewRedisStore(config.RedisURL())
	case "memory":
		logger.LogWarn("Using in-memory storage: client state will not survive a restart")
		return kvstore.NewMemoryStore(), nil
	default:
		return kvstore.NewFileStore(config.DataDirectory())
	}
}

// Run starts the HTTP server
func (a *App) Run() {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a separate goroutine
	go func() {
		logger.LogInfo("Starting server on %s", a.addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogFatal("Server failed: %v", err)
		}
	}()

	// Wait for a shutdown signal
	<-stop
	logger.LogInfo("Shutdown signal received")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server gracefully
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError("Server shutdown error: %v", err)
	}

	// Wait for active connections to finish
	logger.LogInfo("Waiting for active connections to finish...")
	a.connections.Wait()
	logger.LogInfo("All connections closed. Total requests handled: %d", atomic.LoadInt64(&a.totalRequests))
	logger.LogInfo("Server shut down gracefully")
}

// Handler assembles all middleware around the main mux
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.trackConnections(handler)
	handler = withCORS(handler)
	handler = logRequests(handler)
	handler = withTimeout(handler, 15*time.Second)

	return handler
}

// Middleware: timeout handler
func withTimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, "Request timed out")
}

// Middleware: log requests
func logRequests(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		h.ServeHTTP(w, r)

		duration := time.Since(start)
		logger.LogInfo("%s %s took %v", r.Method, r.URL.Path, duration)
	})
}

// Middleware: CORS headers for the detached UI
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", config.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// Middleware: track active connections and total requests
func (a *App) trackConnections(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.connections.Add(1)
		atomic.AddInt64(&a.totalRequests, 1)
		defer a.connections.Done()

		h.ServeHTTP(w, r)
	})
}
