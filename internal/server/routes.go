package server

import (
	"net/http"
	"time"

	"trialbook/internal/controller"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORS.AllowedOrigins,
		AllowMethods:     s.config.CORS.AllowedMethods,
		AllowHeaders:     s.config.CORS.AllowedHeaders,
		AllowCredentials: s.config.CORS.AllowCredentials,
		MaxAge:           time.Duration(s.config.CORS.MaxAge) * time.Second,
	}))

	r.GET("/health", s.readyHandler)
	r.GET("/online", s.onlineHandler)

	api := r.Group("/", s.AuthMiddleware(controller.RoleAdmin, controller.RoleService))
	{
		api.GET("/overview", s.overviewHandler)

		catalog := api.Group("/catalog")
		{
			catalog.GET("/killers", s.listKillersHandler)
			catalog.GET("/survivors", s.listSurvivorsHandler)
			catalog.GET("/items", s.listItemsHandler)
			catalog.GET("/addons", s.listAddonsHandler)
			catalog.GET("/perks", s.listPerksHandler)
			catalog.GET("/offerings", s.listOfferingsHandler)
			catalog.GET("/realms", s.listRealmsHandler)
			catalog.GET("/icons/:category/:name", s.iconHandler)
		}

		matches := api.Group("/matches")
		{
			matches.POST("/killer", s.logKillerMatchHandler)
			matches.POST("/survivor", s.logSurvivorMatchHandler)
			matches.GET("/killer", s.listKillerMatchesHandler)
			matches.GET("/survivor", s.listSurvivorMatchesHandler)
			matches.GET("/killer/:id", s.getKillerMatchHandler)
			matches.GET("/survivor/:id", s.getSurvivorMatchHandler)
			matches.DELETE("/killer/:id", s.deleteKillerMatchHandler)
			matches.DELETE("/survivor/:id", s.deleteSurvivorMatchHandler)
			matches.POST("/import", s.importMatchesHandler)
		}

		stats := api.Group("/stats")
		{
			stats.POST("/calculate", s.startCalculationHandler)
			stats.GET("/reports", s.listReportsHandler)
			stats.GET("/reports/latest", s.latestReportHandler)
			stats.GET("/reports/:id", s.getReportHandler)
			stats.GET("/charts/latest", s.latestChartsHandler)
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", s.ListJobsHandler)
			jobs.GET("/types", s.ListAllAvailableJobTypes)
			jobs.GET("/:id", s.GetJobHandler)
			jobs.POST("/cancel/:type", s.CancelJobHandler)
		}
	}

	admin := r.Group("/admin", s.AuthMiddleware(controller.RoleAdmin))
	{
		admin.POST("/catalog", s.replaceCatalogHandler)

		tokens := admin.Group("/tokens")
		{
			tokens.POST("", s.CreateTokenHandler)
			tokens.GET("", s.ListTokensHandler)
			tokens.GET("/:id", s.GetTokenHandler)
			tokens.DELETE("/:id", s.RevokeTokenHandler)
		}
	}

	return r
}
