package bootstrap

import (
	"context"
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/insurance-system/insurance-backend/internal/api/http"
	"github.com/insurance-system/insurance-backend/internal/api/http/middleware"
	contracthttp "github.com/insurance-system/insurance-backend/internal/contracts/http"
	contractsvc "github.com/insurance-system/insurance-backend/internal/contracts/service"
	proposalhttp "github.com/insurance-system/insurance-backend/internal/proposals/http"
	proposalsvc "github.com/insurance-system/insurance-backend/internal/proposals/service"
)

// ProposalRouterDeps carries everything the proposal API needs wired in.
type ProposalRouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Cache       *redis.Client
	Service     *proposalsvc.ProposalService
}

// ContractRouterDeps carries everything the contract API needs wired in.
type ContractRouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Cache       *redis.Client
	Service     *contractsvc.ContractService
}

func BuildProposalRouter(dep ProposalRouterDeps) *gin.Engine {
	r := newEngine()

	health := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, pgxPinger(dep.DB), redisPinger(dep.Cache))
	health.RegisterRoutes(r)

	handler := proposalhttp.NewHandler(dep.Service)
	handler.Register(r.Group("/api/proposals"))

	return r
}

func BuildContractRouter(dep ContractRouterDeps) *gin.Engine {
	r := newEngine()

	health := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, sqlPinger(dep.DB), redisPinger(dep.Cache))
	health.RegisterRoutes(r)

	handler := contracthttp.NewHandler(dep.Service)
	handler.Register(r.Group("/api/contracts"))

	return r
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: true,
	}))
	return r
}

func pgxPinger(pool *pgxpool.Pool) httpapi.Pinger {
	if pool == nil {
		return nil
	}
	return httpapi.PingerFunc(pool.Ping)
}

func sqlPinger(db *sql.DB) httpapi.Pinger {
	if db == nil {
		return nil
	}
	return httpapi.PingerFunc(db.PingContext)
}

func redisPinger(client *redis.Client) httpapi.Pinger {
	if client == nil {
		return nil
	}
	return httpapi.PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
