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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Overland-East-Bay/front-desk/internal/adapters/backendapi"
	"github.com/Overland-East-Bay/front-desk/internal/adapters/httpapi"
	memsessionstore "github.com/Overland-East-Bay/front-desk/internal/adapters/memory/sessionstore"
	"github.com/Overland-East-Bay/front-desk/internal/app/checkin"
	platformclock "github.com/Overland-East-Bay/front-desk/internal/platform/clock"
	"github.com/Overland-East-Bay/front-desk/internal/platform/config"
	"github.com/Overland-East-Bay/front-desk/internal/platform/metrics"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.LoadConsoleConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid console config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("invalid console config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	client, err := backendapi.New(backendapi.Options{
		BaseURL: cfg.BackendBaseURL,
		Token:   cfg.BackendToken,
		Timeout: cfg.BackendHTTPTimeout,
	})
	if err != nil {
		log.Fatalf("invalid backend config: %v", err)
	}

	m := metrics.New()
	svc := checkin.NewService(checkin.ServiceDeps{
		Store:           memsessionstore.NewStore[*checkin.Terminal](),
		Clock:           platformclock.NewSystemClock(),
		Directory:       client,
		Recorder:        client,
		Roster:          client,
		FitnessCenterID: cfg.CenterID(),
		Location:        loc,
		Metrics:         m,
	})

	handler := httpapi.NewRouterWithOptions(
		httpapi.NewServer(svc),
		httpapi.RouterOptions{Metrics: m.Handler()},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("console listening on :%s (gym %d, backend %s)", cfg.Port, cfg.FitnessCenterID, client)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("console: %v", err)
	}
}
