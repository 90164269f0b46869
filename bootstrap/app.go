// Package bootstrap wires the Argus service together: configuration,
// logging, storage, the detector roster and the run loop.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"argus/config"
	"argus/core"
	"argus/detect"
	"argus/ingest"
	"argus/storage"
	"argus/threat"
)

// App is the assembled Argus service
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
	Policy *core.Policy

	AlertStore storage.AlertStore
	Suppressor *storage.Suppressor
	EventLog   *storage.EventLog
	Engine     *detect.Engine
	Listener   *ingest.JSONListener

	EventCh    chan *core.UnifiedEvent
	httpServer *http.Server

	serviceWg  sync.WaitGroup
	shutdownCh chan struct{}
}

// NewApp initializes every component of the service
func NewApp(ctx context.Context) (*App, error) {
	app := &App{
		shutdownCh: make(chan struct{}),
	}

	logger, sugar, err := InitLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	app.Sugar = sugar

	sugar.Info("Argus starting...")

	cfg, err := InitConfig(sugar)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	policy, err := InitPolicy(cfg, sugar)
	if err != nil {
		return nil, err
	}
	app.Policy = policy

	store, err := storage.NewSQLiteStore(cfg.DataPaths.SQLitePath, sugar)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize alert store: %w", err)
	}
	app.AlertStore = store

	if cfg.Suppression.Enabled {
		suppressor, err := storage.NewSuppressor(cfg.Suppression.RedisAddr, cfg.Suppression.RedisDB, cfg.Suppression.TTL, sugar)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize suppression window: %w", err)
		}
		app.Suppressor = suppressor
	}

	intel := threat.NewIntelSet(policy.MaliciousIPs, policy.MaliciousProcesses)
	ipCount, procCount := intel.Size()
	sugar.Infof("Threat intel loaded: %d IP indicators, %d process indicators", ipCount, procCount)

	sink := storage.NewAlertWriterSink(store, app.Suppressor, sugar)
	roster := detect.DefaultRoster(policy, intel)
	app.Engine = detect.NewEngine(roster, sink, sugar, cfg.Engine.Workers, policy.MinConfidence)
	sugar.Infof("Detection engine ready with %d detectors", len(roster))

	app.EventLog = storage.NewEventLog()
	app.EventCh = make(chan *core.UnifiedEvent, 1000)
	app.Listener = ingest.NewJSONListener(cfg.Listener.Host, cfg.Listener.Port, app.EventCh, sugar)

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)
	app.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 10 * time.Second,
	}

	return app, nil
}

// Start brings the listener, the HTTP server and the engine run loop up
func (a *App) Start(ctx context.Context) error {
	if err := a.Listener.Start(); err != nil {
		return err
	}

	a.serviceWg.Add(1)
	go func() {
		defer a.serviceWg.Done()
		a.Sugar.Infof("HTTP server listening on %s", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Sugar.Errorf("HTTP server failed: %v", err)
		}
	}()

	a.serviceWg.Add(1)
	go a.runLoop(ctx)

	return nil
}

// runLoop collects ingested events into the log and re-runs the engine
// over the full history on every tick. The engine re-derives everything
// from the batch; there is no incremental state to invalidate.
func (a *App) runLoop(ctx context.Context) {
	defer a.serviceWg.Done()

	ticker := time.NewTicker(a.Config.Engine.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.shutdownCh:
			return
		case <-ctx.Done():
			return
		case ev := <-a.EventCh:
			a.EventLog.Append(ev)
		case <-ticker.C:
			events := a.EventLog.Snapshot()
			if len(events) == 0 {
				continue
			}
			a.Engine.RunDetections(ctx, events)
		}
	}
}

// WaitForShutdown blocks until SIGINT or SIGTERM
func (a *App) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	a.Sugar.Infof("Received signal %v, shutting down", sig)
}

// Shutdown stops all components gracefully
func (a *App) Shutdown() {
	close(a.shutdownCh)

	a.Listener.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.Sugar.Warnf("HTTP server shutdown: %v", err)
	}

	done := make(chan struct{})
	go func() {
		a.serviceWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		a.Sugar.Warn("Shutdown timed out after 30s, some goroutines may still be running")
	}

	if a.Suppressor != nil {
		if err := a.Suppressor.Close(); err != nil {
			a.Sugar.Warnf("Failed to close suppressor: %v", err)
		}
	}
	if err := a.AlertStore.Close(); err != nil {
		a.Sugar.Warnf("Failed to close alert store: %v", err)
	}

	a.Sugar.Info("Argus stopped")
	_ = a.Logger.Sync()
}
