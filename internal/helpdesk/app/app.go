package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	helpdeskhttp "github.com/opsdesk/deskd/internal/helpdesk/http"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/internal/helpdesk/store/drivers/sqlite"
	"github.com/opsdesk/deskd/pkg/jwtx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

// Version is stamped at build time.
var Version = "dev"

// Application owns the process lifecycle: store, background workers and the
// HTTP server, started and stopped as a unit.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store        *sqlite.Store
	housekeeping *service.HousekeepingService
	server       *http.Server
}

// New builds the full service graph from configuration. Nothing is started
// yet; Run does that.
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "helpdesk",
		Version: Version,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	st, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	verifier, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("configure verifier: %w", err)
	}

	tokens := &service.TokenService{
		Store:  st,
		Mailer: &service.LogMailer{Logger: logger},
		TTL:    cfg.TokenTTL,
	}

	router := helpdeskhttp.NewRouter(st, verifier, tokens, logger)

	return &Application{
		cfg:    cfg,
		logger: logger,
		store:  st,
		housekeeping: service.NewHousekeepingService(
			st, logger, cfg.HousekeepingInterval, cfg.TokenRetention),
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: router.Handler(),
		},
	}, nil
}

// Run starts the background workers and the HTTP server, then blocks until
// SIGINT or SIGTERM triggers a graceful shutdown.
func (a *Application) Run() error {
	a.housekeeping.Start()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdown()
		return err
	case sig := <-sigCh:
		a.logger.Info("shutdown signal received", "signal", sig.String())
		return a.shutdown()
	}
}

func (a *Application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	a.housekeeping.Stop()
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
