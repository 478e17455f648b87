package main

import (
	"context"
	"log"

	"github.com/insurance-system/insurance-backend/config"
	"github.com/insurance-system/insurance-backend/internal/bootstrap"
	"github.com/insurance-system/insurance-backend/internal/proposals/cron"
	"github.com/insurance-system/insurance-backend/internal/proposals/repository"
	"github.com/insurance-system/insurance-backend/internal/proposals/service"
	"github.com/insurance-system/insurance-backend/internal/shared/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	repo := repository.NewCachedProposalRepository(repository.NewProposalRepository(pool), rdb)
	publisher := events.NewRedisPublisher(rdb)
	svc := service.NewProposalService(repo, publisher)

	if cfg.Sweep.Enabled {
		scheduler := cron.NewScheduler(repo, cfg.Sweep.Schedule, cfg.Sweep.MaxReviewAge)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := bootstrap.BuildProposalRouter(bootstrap.ProposalRouterDeps{
		ServiceName: "proposal-api",
		Version:     cfg.App.Version,
		DB:          pool,
		Cache:       rdb,
		Service:     svc,
	})

	log.Printf("[info] service=proposal-api listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
