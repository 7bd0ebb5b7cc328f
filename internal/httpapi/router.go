package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"employeePortal/internal/logger"
	"employeePortal/internal/portal"
)

// NewRouter builds the JSON API. An empty origins list allows every origin.
func NewRouter(p *portal.Portal, secret string, origins []string, log *slog.Logger) *gin.Engine {
	if log == nil {
		log = logger.Discard()
	}
	h := &Handler{portal: p}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", h.Health)

	api := router.Group("/api/v1")
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.GET("/options", h.Options)

	authed := api.Group("")
	authed.Use(BearerAuth(secret))
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/me", h.Me)
		authed.GET("/requests", h.MyRequests)
		authed.POST("/requests/leave", h.SubmitLeave)
		authed.POST("/requests/overtime", h.SubmitOvertime)

		admin := authed.Group("/admin")
		admin.Use(AdminOnly())
		{
			admin.GET("/requests", h.ListRequests)
			admin.POST("/requests/:id/approve", h.Approve)
			admin.POST("/requests/:id/reject", h.Reject)
			admin.GET("/users", h.ListUsers)
			admin.POST("/seed", h.Seed)
			admin.POST("/reset", h.Reset)
		}
	}
	return router
}
