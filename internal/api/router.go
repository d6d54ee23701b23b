// Package api exposes the amendment service over HTTP. Handlers are thin:
// they parse and bind, call the service, and translate service errors into
// the response envelope. No SQL lives here.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fisworks/amendtrack/internal/apierrors"
	"github.com/fisworks/amendtrack/internal/config"
	"github.com/fisworks/amendtrack/internal/middleware"
	"github.com/fisworks/amendtrack/internal/service"
)

const serviceVersion = "1.0.0"

// APIRouter wires the HTTP surface to the amendment service.
type APIRouter struct {
	db  *sqlx.DB
	svc *service.AmendmentService
}

// NewAPIRouter creates the route handler set over a database handle and a
// service. The handle is only used for health checks.
func NewAPIRouter(db *sqlx.DB, svc *service.AmendmentService) *APIRouter {
	return &APIRouter{db: db, svc: svc}
}

// NewRouter assembles the engine: recovery, request ids, request logging,
// metrics, optional rate limiting, then all routes.
func NewRouter(db *sqlx.DB, svc *service.AmendmentService, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.HTTPMetrics())
	if cfg != nil && cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	}

	router := NewAPIRouter(db, svc)
	router.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts every route on the engine.
func (router *APIRouter) RegisterRoutes(r *gin.Engine) {
	r.GET("/", router.handleRoot)
	r.GET("/health", router.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	amendments := api.Group("/amendments")
	{
		amendments.POST("", router.handleCreateAmendment)
		amendments.GET("", router.handleListAmendments)
		amendments.GET("/stats", router.handleStats)
		amendments.POST("/bulk-update", router.handleBulkUpdate)
		amendments.GET("/reference/:reference", router.handleGetAmendmentByReference)
		amendments.GET("/:id", router.handleGetAmendment)
		amendments.PUT("/:id", router.handleUpdateAmendment)
		amendments.PATCH("/:id/qa", router.handleUpdateQA)
		amendments.DELETE("/:id", router.handleDeleteAmendment)
		amendments.POST("/:id/progress", router.handleAddProgress)
		amendments.GET("/:id/progress", router.handleListProgress)
		amendments.POST("/:id/links", router.handleCreateLink)
		amendments.GET("/:id/links", router.handleListLinks)
		amendments.DELETE("/links/:link_id", router.handleDeleteLink)
	}

	reference := api.Group("/reference")
	{
		reference.GET("/next", router.handleNextReference)
		reference.GET("/statuses", router.handleListStatuses)
		reference.GET("/dev-statuses", router.handleListDevStatuses)
		reference.GET("/priorities", router.handleListPriorities)
		reference.GET("/types", router.handleListTypes)
		reference.GET("/forces", router.handleListForces)
		reference.GET("/link-types", router.handleListLinkTypes)
	}
}

// handleRoot returns the service banner.
func (router *APIRouter) handleRoot(c *gin.Context) {
	sendSuccess(c, gin.H{
		"name":    "amendtrack",
		"version": serviceVersion,
		"endpoints": gin.H{
			"amendments": "/api/amendments",
			"stats":      "/api/amendments/stats",
			"reference":  "/api/reference",
			"health":     "/health",
			"metrics":    "/metrics",
		},
	})
}

// handleHealth pings the database. 503 when it is unreachable.
func (router *APIRouter) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := router.db.PingContext(ctx); err != nil {
		sendError(c, apierrors.CodeServiceUnavailable, "database unreachable")
		return
	}

	sendSuccess(c, gin.H{
		"status":    "healthy",
		"service":   "amendtrack",
		"version":   serviceVersion,
		"timestamp": time.Now().UTC(),
	})
}
