package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"connectrpc.com/connect"
	firebasesdk "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/ekkora/internal/auth"
	"github.com/mmynk/ekkora/internal/config"
	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/docstore/firestore"
	"github.com/mmynk/ekkora/internal/docstore/memory"
	"github.com/mmynk/ekkora/internal/docstore/postgres"
	"github.com/mmynk/ekkora/internal/docstore/sqlite"
	"github.com/mmynk/ekkora/internal/firebase"
	"github.com/mmynk/ekkora/internal/middleware"
	"github.com/mmynk/ekkora/internal/service"
	"github.com/mmynk/ekkora/internal/storage"
	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
	"github.com/mmynk/ekkora/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app *firebasesdk.App
	if cfg.Firebase.Enabled() {
		app, err = firebase.NewApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return err
		}
		slog.Info("Firebase initialized", "project", cfg.Firebase.ProjectID)
	}

	docs, err := openStore(ctx, cfg.Store, app)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	repo := storage.New(docs)
	defer repo.Close()
	slog.Info("Storage initialized", "driver", cfg.Store.Driver)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Duration)
	verifier := auth.Chain{jwtManager}
	if app != nil {
		fv, err := auth.NewFirebaseVerifier(ctx, app)
		if err != nil {
			return err
		}
		verifier = append(verifier, fv)
	}
	authenticator := auth.NewPasswordAuthenticator(docs, cfg.Auth.SignInRate, cfg.Auth.SignInBurst)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	workspaces := service.NewWorkspaces(repo, logger,
		workspace.WithMetrics(workspace.NewMetrics(reg)),
		workspace.WithLocation(cfg.Location),
	)

	interceptors := connect.WithInterceptors(
		middleware.NewMetrics(reg),
		middleware.NewAuthInterceptor(verifier,
			apiconnect.AuthServiceSignUpProcedure,
			apiconnect.AuthServiceSignInProcedure,
			apiconnect.SessionServiceResolveProcedure,
		),
		middleware.NewLoggingInterceptor(logger),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, repo, logger), interceptors))
	mux.Handle(apiconnect.NewSessionServiceHandler(service.NewSessionService(repo, logger), interceptors))
	mux.Handle(apiconnect.NewChurchServiceHandler(service.NewChurchService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewFinanceServiceHandler(service.NewFinanceService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewCategoryServiceHandler(service.NewCategoryService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewMemberServiceHandler(service.NewMemberService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewPeopleServiceHandler(service.NewPeopleService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewDashboardServiceHandler(service.NewDashboardService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewReportServiceHandler(service.NewReportService(workspaces, logger), interceptors))

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	staticDir, err := filepath.Abs(cfg.Static.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)
	mux.Handle("/", staticHandler(staticDir))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect streaming)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(cfg.Server.AllowedOrigins, mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end with the process context so Shutdown can drain them.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, app *firebasesdk.App) (docstore.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		return sqlite.New(cfg.SQLitePath)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.PostgresDSN)
	case config.DriverFirestore:
		return firestore.New(ctx, app)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// staticHandler serves the web client. Unknown paths fall back to index.html.
func staticHandler(staticDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/ekkora.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	wildcard := slices.Contains(allowed, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
