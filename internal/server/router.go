// Package server exposes client edit sessions over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kylejryan/claims-admin/internal/authz"
	"github.com/kylejryan/claims-admin/internal/httpx"
	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/metrics"
	"github.com/kylejryan/claims-admin/internal/models"
	"github.com/kylejryan/claims-admin/internal/s3io"
	"github.com/kylejryan/claims-admin/internal/session"
)

// Clients loads and saves clients.
type Clients interface {
	Get(ctx context.Context, id int64) (models.Client, error)
	Create(ctx context.Context, c models.Client) (models.Client, error)
	Update(ctx context.Context, id int64, c models.Client, del models.Deletions) (models.Client, error)
}

// Lookups serves reference lists.
type Lookups interface {
	FetchAll(ctx context.Context, kind models.LookupKind) (any, error)
	LoadAll(ctx context.Context) (models.Lookups, error)
}

// RouterConfig wires the router. Metrics and Presigner are optional.
type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *metrics.Metrics
	Auth        authz.Authenticator
	CORSOrigins []string

	Sessions   *session.Manager
	Clients    Clients
	Lookups    Lookups
	Presigner  s3io.Presigner
	Bucket     string
	PresignTTL time.Duration
}

type handler struct {
	log        *logger.Logger
	sessions   *session.Manager
	clients    Clients
	lookups    Lookups
	presigner  s3io.Presigner
	bucket     string
	presignTTL time.Duration
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	h := &handler{
		log:        log,
		sessions:   cfg.Sessions,
		clients:    cfg.Clients,
		lookups:    cfg.Lookups,
		presigner:  cfg.Presigner,
		bucket:     cfg.Bucket,
		presignTTL: cfg.PresignTTL,
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.CORS(cfg.CORSOrigins), httpx.RequestLogger(log), httpx.Metrics(cfg.Metrics))

	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api", httpx.RequireAuth(cfg.Auth))
	{
		api.POST("/client-sessions", h.openSession)

		s := api.Group("/client-sessions/:id", h.loadSession)
		s.GET("", h.view)
		s.DELETE("", h.closeSession)
		s.POST("/reset", h.reset)
		s.PUT("/tab", h.selectTab)
		s.PATCH("/slices/:slice", h.patchSlice)
		s.PUT("/collections/:collection", h.setCollection)
		s.POST("/collections/:collection/items", h.addItem)
		s.POST("/collections/:collection/soft-delete", h.softDelete)
		s.POST("/collections/:collection/restore", h.restore)
		s.PUT("/documents", h.upsertDocument)
		s.POST("/documents/link", h.linkDocument)
		s.GET("/snapshot", h.snapshot)
		s.POST("/save", h.save)

		api.GET("/lookups", h.allLookups)
		api.GET("/lookups/:kind", h.lookup)
		api.GET("/clients/:id/documents/url", h.documentURL)
	}
	return r
}
