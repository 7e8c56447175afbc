package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripstay/internal/adapters/inventory"
	"tripstay/internal/adapters/observability"
	redisad "tripstay/internal/adapters/redis"
	"tripstay/internal/app"
	"tripstay/internal/shared"
	mysqlrepo "tripstay/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// exposes outbound/cache counters while the run is in progress
	observability.Serve(cfg.MetricsAddr, observability.InitRegistry())

	log.Info().
		Str("base", cfg.InventoryURL).
		Int("workers", cfg.IngestWorkers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := inventory.New(cfg.InventoryURL, cfg.InventoryKey, cfg.InventoryRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ing := app.NewIngestionService(client, repo, cache)

	ids, err := client.ListHotelIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing hotel ids failed")
	}
	log.Info().Int("hotels", len(ids)).Msg("hotel ids fetched")

	workers := cfg.IngestWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("ingestion interrupted")
			break
		}

		wg.Add(1)
		go func(hotelID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestHotel(ctx, hotelID); err != nil {
				failed.Add(1)
				log.Warn().Str("id", hotelID).Err(err).Msg("ingest failed")
				return
			}
			log.Debug().Str("id", hotelID).Msg("ingest ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int("hotels", len(ids)).Int64("failed", failed.Load()).Msg("ingestion completed")
}
