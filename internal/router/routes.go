package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/job-leads/api/internal/auth"
	"github.com/octobees/job-leads/api/internal/config"
	"github.com/octobees/job-leads/api/internal/handler"
	middlewarepkg "github.com/octobees/job-leads/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Leads    *handler.LeadsHandler
	Pipeline *handler.PipelineHandler
	Messages *handler.MessageHandler
	Metrics  http.Handler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, debouncer middlewarepkg.Allower, handlers Handlers) {
	e.GET("/healthz", handlers.Health.Check)
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("", middlewarepkg.JWT(jwtManager), middlewarepkg.RequireRole(auth.RoleOperator))

	secured.POST("/pipeline/run", handlers.Pipeline.Run, middlewarepkg.Debounce(debouncer))
	e.Match([]string{
		http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete,
	}, "/pipeline/run", handlers.Pipeline.MethodNotAllowed)

	leads := secured.Group("/leads")
	leads.GET("", handlers.Leads.List)
	leads.POST("/delete-many", handlers.Leads.DeleteMany)
	leads.DELETE("/:id", handlers.Leads.Delete)
	leads.PUT("/:id/tags", handlers.Leads.AddTag)
	leads.DELETE("/:id/tags/:tag", handlers.Leads.RemoveTag)
	leads.PUT("/:id/emails", handlers.Leads.UpdateEmail)
	leads.DELETE("/:id/emails", handlers.Leads.DeleteEmail)
	leads.POST("/:id/keywords", handlers.Leads.GenerateKeywords)

	messages := secured.Group("/messages", middlewarepkg.RateLimiter(cfg.RateLimitMessages))
	messages.POST("/dm", handlers.Messages.DM)
	messages.POST("/follow-up", handlers.Messages.FollowUp)
	messages.POST("/send-application", handlers.Messages.SendApplication)
}
