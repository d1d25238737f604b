package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hiredesk/config"
	"hiredesk/failures"
	"hiredesk/logger"
	"hiredesk/pipeline"
	"hiredesk/routes"
	"hiredesk/success"
	"hiredesk/validator"
	writerbackends "hiredesk/writerBackends"
)

// ledgerMaxAge is how long ingest outcomes are kept.
const ledgerMaxAge = 30 * 24 * time.Hour

func main() {
	cfg := config.FromEnv()

	if cfg.LogFile != "" {
		if err := logger.Init(cfg.LogFile, true); err != nil {
			logger.Fatalf("Failed to open log file: %v", err)
		}
		defer logger.Close()
	}
	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Unknown log level %q, keeping default", cfg.LogLevel)
	}

	logger.Info("Starting hiredesk media server initialization")
	if cfg.JWTSecret == "" {
		logger.Fatal("HIREDESK_JWT_SECRET must be set")
	}

	logger.Debug("Initializing failures database")
	if err := failures.Init(cfg.FailuresDBPath()); err != nil {
		logger.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer failures.Close()

	logger.Debug("Initializing success database")
	if err := success.Init(cfg.SuccessDBPath()); err != nil {
		logger.Fatalf("Failed to initialize success store: %v", err)
	}
	defer success.Close()
	logger.Info("Outcome ledgers initialized successfully")

	pipelines := buildPipelines(cfg)
	if _, ok := pipelines[cfg.Backend]; !ok {
		logger.Fatalf("Default backend %q is not available", cfg.Backend)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cleanupRoutine(ctx)

	auth := routes.AuthOptions{JWTSecret: []byte(cfg.JWTSecret)}

	mux := http.NewServeMux()
	mux.HandleFunc("/upload", routes.UploadHandler(routes.UploadOptions{
		JWTSecret: auth.JWTSecret,
		Pipelines: pipelines,
		Default:   cfg.Backend,
	}))
	mux.HandleFunc("/health", routes.HealthHandler)
	mux.HandleFunc("/version", routes.VersionHandler)
	mux.HandleFunc("/failures", routes.RequireToken(auth, routes.FailureQueryHandler))
	mux.HandleFunc("/failures/list", routes.RequireAdmin(auth, routes.FailureListHandler))
	mux.HandleFunc("/success", routes.RequireToken(auth, routes.SuccessQueryHandler))
	mux.HandleFunc("/success/list", routes.RequireAdmin(auth, routes.SuccessListHandler))
	mux.Handle("/media/", routes.MediaHandler(cfg.ServeDir))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
	logger.Infof("Server starting on port %s (default backend %s)", cfg.Port, cfg.Backend)
	if err := serve(ctx, srv, ln); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}

// serve runs srv on ln until ctx is done and returns only after in-flight
// requests have finished, so the deferred ledger Close calls never race a
// handler still recording its outcome.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-drained
	return nil
}

// buildPipelines sets up one pipeline per backend that has enough
// configuration to start. Backends that fail are logged and skipped.
func buildPipelines(cfg config.Config) map[string]*pipeline.Pipeline {
	v := validator.Validator{MaxBytes: cfg.MaxUploadBytes}
	client := &http.Client{}

	pipelines := make(map[string]*pipeline.Pipeline)
	for _, kind := range writerbackends.Kinds {
		store, err := writerbackends.New(cfg, kind, client)
		if err != nil {
			logger.Debugf("Backend %s unavailable: %v", kind, err)
			continue
		}
		pipelines[kind] = pipeline.New(store, v, pipeline.WithRecorder(pipeline.Ledger{}))
		logger.Infof("Backend %s ready", kind)
	}
	return pipelines
}

// cleanupRoutine periodically cleans up old success and failure records
func cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup routine stopped")
			return
		case <-ticker.C:
			if n, err := success.CleanupOldRecords(ledgerMaxAge); err != nil {
				logger.Errorf("Failed to cleanup old success records: %v", err)
			} else {
				logger.Infof("Removed %d success records older than %v", n, ledgerMaxAge)
			}

			if n, err := failures.CleanupOldRecords(ledgerMaxAge); err != nil {
				logger.Errorf("Failed to cleanup old failure records: %v", err)
			} else {
				logger.Infof("Removed %d failure records older than %v", n, ledgerMaxAge)
			}
		}
	}
}
