package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-notetaker/internal/domain/entities"
	"github.com/johnquangdev/meeting-notetaker/internal/domain/repositories"
	"github.com/johnquangdev/meeting-notetaker/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-notetaker/pkg/config"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
	pkgMiddleware "github.com/johnquangdev/meeting-notetaker/pkg/middleware"
)

// Roles checked by the router
const (
	RoleAdmin   = "admin"
	RoleService = "service_role"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Router holds all handlers
type Router struct {
	cfg           *config.Config
	jwtManager    *jwt.Manager
	recordingRepo repositories.RecordingRepository
	apiKeyRepo    repositories.APIKeyRepository
	logger        *zap.Logger

	Transcript  *Transcript
	Recording   *Recording
	Webhook     *Webhook
	External    *External
	Admin       *Admin
	Maintenance *Maintenance
	Archive     *Archive

	// HealthChecks run on GET /health, keyed by dependency name
	HealthChecks map[string]HealthCheck
}

// NewRouter creates a new router. Handlers are assigned by the caller.
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	recordingRepo repositories.RecordingRepository,
	apiKeyRepo repositories.APIKeyRepository,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		jwtManager:    jwtManager,
		recordingRepo: recordingRepo,
		apiKeyRepo:    apiKeyRepo,
		logger:        logger,
		HealthChecks:  map[string]HealthCheck{},
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	auth := middleware.EchoAuth(rt.jwtManager)

	rt.setupTranscriptRoutes(v1, auth)
	rt.setupRecordingRoutes(v1, auth)
	rt.setupWebhookRoutes(v1)
	rt.setupExternalRoutes(v1)
	rt.setupAdminRoutes(v1, auth)
	rt.setupMaintenanceRoutes(v1, auth)
}

func (rt *Router) setupTranscriptRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	if rt.Transcript == nil {
		return
	}
	group := g.Group("/transcripts")
	group.POST("/parse", rt.Transcript.Parse, auth)

	secret := middleware.ExportSecret(rt.cfg.Export.Secret)
	group.POST("/receive", rt.Transcript.Receive, secret)
	group.POST("/export", rt.Transcript.Export, secret)
}

func (rt *Router) setupRecordingRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	if rt.Recording == nil {
		return
	}
	g.GET("/analytics/account", rt.Recording.AccountAnalytics, auth)

	group := g.Group("/recordings", auth)
	group.GET("", rt.Recording.List)

	owned := group.Group("/:id", pkgMiddleware.RequireRecordingOwner(rt.recordingRepo))
	owned.GET("/segments", rt.Recording.Segments)
	owned.GET("/participants", rt.Recording.Participants)
	owned.GET("/analysis", rt.Recording.Analysis)
	owned.POST("/sync", rt.Recording.Sync)
	owned.POST("/transcribe", rt.Recording.Transcribe)
	if rt.Archive != nil {
		owned.GET("/archive", rt.Archive.Link)
	}
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	if rt.Webhook == nil {
		return
	}
	group := g.Group("/webhooks")
	group.POST("/meeting-bot", rt.Webhook.MeetingBot)
	group.POST("/transcription", rt.Webhook.Transcription)
}

func (rt *Router) setupExternalRoutes(g *echo.Group) {
	if rt.External == nil {
		return
	}
	group := g.Group("/api")
	group.GET("/transcripts", rt.External.Transcripts,
		middleware.APIKeyAuth(rt.apiKeyRepo, entities.PermissionTranscripts, rt.logger))
}

func (rt *Router) setupAdminRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	if rt.Admin == nil {
		return
	}
	group := g.Group("/admin", auth, middleware.RequireRole(RoleAdmin))
	group.POST("/api-keys", rt.Admin.CreateAPIKey)
	group.GET("/api-keys", rt.Admin.ListAPIKeys)
}

func (rt *Router) setupMaintenanceRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	if rt.Maintenance == nil {
		return
	}
	group := g.Group("/maintenance", auth, middleware.RequireRole(RoleService))
	group.POST("/cleanup-stale", rt.Maintenance.CleanupStale)
	group.POST("/auto-sync", rt.Maintenance.AutoSync)
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         Operational
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(rt.HealthChecks))
	for name, check := range rt.HealthChecks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status":      overall,
		"environment": rt.cfg.Server.Environment,
		"checks":      checks,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}
