package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies
// it directly; wrap *sql.DB and the redis client with PingerFunc.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Cache     string    `json:"cache,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	cache       Pinger
}

func NewHealthHandler(serviceName, version string, db, cache Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        h.probe(c.Request.Context(), h.db),
		Cache:     h.probe(c.Request.Context(), h.cache),
	})
}

func (h *HealthHandler) probe(ctx context.Context, dep Pinger) string {
	if dep == nil {
		return "disabled"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := dep.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
