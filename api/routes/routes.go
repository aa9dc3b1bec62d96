package routes

import (
	"net/http"

	"github.com/ArowuTest/draws-backend/internal/config"
	"github.com/ArowuTest/draws-backend/internal/handlers"
	"github.com/ArowuTest/draws-backend/internal/middleware"
	"github.com/ArowuTest/draws-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds the handlers served by the router
type HandlerDependencies struct {
	DrawHandler        *handlers.DrawHandler
	SecretSantaHandler *handlers.SecretSantaHandler
	AuthHandler        *handlers.AuthHandler
	AdminHandler       *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		draws := public.Group("/draws")
		{
			draws.POST("", deps.DrawHandler.CreateDraw)
			draws.GET("/:id", deps.DrawHandler.GetDraw)
			draws.DELETE("/:id", deps.DrawHandler.DeleteDraw)
			draws.POST("/:id/toss", deps.DrawHandler.Toss)
			draws.PATCH("/:id/retoss", deps.DrawHandler.Retoss)
			draws.POST("/:id/participants", deps.DrawHandler.AddParticipants)
			draws.POST("/:id/prizes", deps.DrawHandler.AddPrizes)
		}

		santa := public.Group("/secret-santa")
		{
			santa.POST("", deps.SecretSantaHandler.Create)
			santa.GET("/:id", deps.SecretSantaHandler.Reveal)
			santa.GET("/:id/admin", deps.SecretSantaHandler.AdminResults)
			santa.POST("/:id/results/:resultId/resend", deps.SecretSantaHandler.Resend)
		}

		public.POST("/admin/login", deps.AuthHandler.Login)
	}

	// Protected routes
	protected := router.Group("/api/v1/admin")
	protected.Use(middleware.JWTAuthMiddleware(cfg, utils.RoleAdmin))
	{
		protected.POST("/purge", deps.AdminHandler.Purge)
		protected.GET("/draws/:id/export", deps.AdminHandler.Export)
	}

	return router
}
