package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/openmart/dashboard/internal/api"
	"github.com/openmart/dashboard/internal/client"
	"github.com/openmart/dashboard/internal/session"
	"github.com/openmart/dashboard/internal/view"
	"github.com/openmart/dashboard/pkg/health"
	"github.com/openmart/dashboard/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the refresh loop and the HTTP server,
// and handles graceful shutdown. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	userID, err := session.LoadOrCreate(cfg.SessionFile)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("user_id", userID),
	)

	// Upstream service clients share one transport configuration.
	opts := client.Options{
		Timeout:        cfg.RequestTimeout,
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	}
	catalogClient := client.NewCatalog(cfg.CatalogURL, opts)
	cartClient := client.NewCart(cfg.CartURL, opts)
	orderClient := client.NewOrder(cfg.OrderURL, opts)

	// View state and the background refresh loop.
	store := view.NewStore()
	defer store.Close()

	scheduler := view.NewScheduler(store, catalogClient, cartClient, orderClient, userID, cfg.PollInterval)
	scheduler.Start(zctx.Base(ctx, lg))
	defer scheduler.Stop()

	mutator := view.NewMutator(store, catalogClient, cartClient, orderClient, scheduler, userID)

	// Health check service. Readiness pings the upstreams; a single upstream
	// being down does not block readiness of the dashboard itself, but a probe
	// failure on all of them shows up in /readyz details.
	pingClient := &http.Client{Timeout: 5 * time.Second}
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("catalog", 5*time.Second, health.PingCheck(pingClient, cfg.CatalogURL))
	healthSvc.AddReadinessCheck("cart", 5*time.Second, health.PingCheck(pingClient, cfg.CartURL))
	healthSvc.AddReadinessCheck("orders", 5*time.Second, health.PingCheck(pingClient, cfg.OrderURL))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Mux: health endpoints + dashboard API on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	api.NewHandler(store, mutator).Routes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins: cfg.CORS.Origins,
				AllowHeaders: []string{"Content-Type"},
				MaxAge:       cfg.CORS.MaxAge,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
