// Command stubbackend serves seeded demo members over the gym backend's REST shape,
// so the console can be run locally without the real backend.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Overland-East-Bay/front-desk/internal/adapters/memory/backend"
	"github.com/Overland-East-Bay/front-desk/internal/adapters/stubbackend"
	"github.com/Overland-East-Bay/front-desk/internal/domain"
	platformclock "github.com/Overland-East-Bay/front-desk/internal/platform/clock"
	"github.com/Overland-East-Bay/front-desk/internal/platform/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.LoadStubBackendConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid stub backend config: %v", err)
	}
	loc, err := time.LoadLocation(cfg.GymTimezone)
	if err != nil {
		log.Fatalf("invalid stub backend config: %v", err)
	}

	b := backend.NewBackend(platformclock.NewSystemClock(), loc)
	b.SearchOmitsBilling = cfg.SearchOmitsBilling
	if err := stubbackend.Seed(b, domain.FitnessCenterID(cfg.FitnessCenterID)); err != nil {
		log.Fatalf("seed: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           stubbackend.NewRouter(b),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("stub backend listening on :%s (gym %d, %d members)", cfg.Port, cfg.FitnessCenterID, len(stubbackend.DemoMembers()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
