package main

import (
	"context"
	"log"

	"github.com/insurance-system/insurance-backend/config"
	"github.com/insurance-system/insurance-backend/internal/bootstrap"
	"github.com/insurance-system/insurance-backend/internal/contracts/domain"
	"github.com/insurance-system/insurance-backend/internal/contracts/repository"
	"github.com/insurance-system/insurance-backend/internal/contracts/service"
	"github.com/insurance-system/insurance-backend/internal/shared/events"
	"github.com/insurance-system/insurance-backend/internal/shared/httpclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenSQLDB(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	peer := httpclient.New(httpclient.Options{
		MaxRetryAttempts:        cfg.Client.MaxRetryAttempts,
		BaseRetryDelay:          cfg.Client.BaseRetryDelay,
		CircuitBreakerThreshold: cfg.Client.CircuitBreakerThreshold,
		CircuitBreakerCooldown:  cfg.Client.CircuitBreakerCooldown,
		Timeout:                 cfg.Client.Timeout,
		RequestsPerSecond:       cfg.Client.RequestsPerSecond,
	})

	repo := repository.NewCachedContractRepository(repository.NewContractRepository(db), rdb)
	proposals := service.NewProposalClient(peer, cfg.Peer.ProposalServiceURL)
	publisher := events.NewRedisPublisher(rdb)
	svc := service.NewContractService(repo, proposals, domain.NewRandomNumberGenerator(), publisher)

	router := bootstrap.BuildContractRouter(bootstrap.ContractRouterDeps{
		ServiceName: "contract-api",
		Version:     cfg.App.Version,
		DB:          db,
		Cache:       rdb,
		Service:     svc,
	})

	log.Printf("[info] service=contract-api listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
