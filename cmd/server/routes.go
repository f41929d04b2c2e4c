package main

import (
	"github.com/gin-gonic/gin"

	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/handlers"
	"github.com/editorialstats/backend/internal/middleware"
	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.CORS.Origins))

	db := models.GetDB()

	// Rate limiter for the write-heavy public surface
	submitLimiter := middleware.NewRateLimiter(2, 5)

	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	submissionHandler := handlers.NewSubmissionHandler(db, svc.evidenceService)
	analyticsHandler := handlers.NewAnalyticsHandler(db)
	optionsHandler := handlers.NewOptionsHandler()
	adminHandler := handlers.NewAdminHandler(db, svc.evidenceService)
	healthHandler := handlers.NewHealthHandler()

	api := r.Group("/api")
	{
		api.GET("/", healthHandler.Root)
		api.GET("/health", healthHandler.CheckHealth)

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.GET("/orcid/authorize", authHandler.ORCIDAuthorize)
			auth.POST("/orcid/callback", authHandler.ORCIDCallback)
			auth.GET("/orcid/status", authHandler.ORCIDStatus)
			auth.POST("/logout", authHandler.Logout)
		}

		// Public catalog and analytics
		api.GET("/publishers", catalogHandler.Publishers)
		api.GET("/journals", catalogHandler.Journals)

		analytics := api.Group("/analytics")
		{
			analytics.GET("/visibility-status", analyticsHandler.VisibilityStatus)
			analytics.GET("/overview", analyticsHandler.Overview)
			analytics.GET("/publishers", analyticsHandler.Publishers)
			analytics.GET("/journals", analyticsHandler.Journals)
			analytics.GET("/areas", analyticsHandler.Areas)
		}

		// Form vocabularies
		options := api.Group("/options")
		{
			options.GET("/scientific-areas", optionsHandler.ScientificAreas)
			options.GET("/cnpq/grande-areas", optionsHandler.GrandeAreas)
			options.GET("/cnpq/areas/:code", optionsHandler.Areas)
			options.GET("/cnpq/subareas/:code", optionsHandler.Subareas)
			options.GET("/cnpq/lookup/:code", optionsHandler.LookupArea)
			options.GET("/manuscript-types", optionsHandler.ManuscriptTypes)
			options.GET("/decision-types", optionsHandler.DecisionTypes)
			options.GET("/reviewer-counts", optionsHandler.ReviewerCounts)
			options.GET("/time-ranges", optionsHandler.TimeRanges)
			options.GET("/apc-ranges", optionsHandler.APCRanges)
			options.GET("/review-comment-types", optionsHandler.ReviewCommentTypes)
			options.GET("/editor-comment-types", optionsHandler.EditorCommentTypes)
			options.GET("/coherence-options", optionsHandler.CoherenceOptions)
			options.GET("/review-quality-scale", optionsHandler.ReviewQualityScale)
			options.GET("/feedback-clarity-scale", optionsHandler.FeedbackClarityScale)
			options.GET("/decision-fairness", optionsHandler.DecisionFairness)
			options.GET("/would-recommend", optionsHandler.WouldRecommend)
		}

		// Authenticated routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(db))
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.PUT("/users/profile", userHandler.UpdateProfile)
			protected.GET("/users/my-insights", userHandler.MyInsights)

			protected.POST("/journals", catalogHandler.AddJournal)

			protected.POST("/submissions", submitLimiter.Middleware(), submissionHandler.Create)
			protected.GET("/submissions/my", submissionHandler.ListMine)
			protected.POST("/submissions/:id/evidence", submitLimiter.Middleware(), submissionHandler.UploadEvidence)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(db), middleware.AdminRequired())
		{
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSettings)
			admin.PUT("/visibility/override", adminHandler.SetOverride)
			admin.DELETE("/visibility/override/:type/:id", adminHandler.RemoveOverride)
			admin.GET("/visibility/check/:type/:id", adminHandler.CheckVisibility)
			admin.GET("/data/stats", adminHandler.DataStats)
			admin.POST("/data/purge-sample", adminHandler.PurgeSample)
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/submissions", adminHandler.ListSubmissions)
			admin.GET("/submissions/:id", adminHandler.GetSubmission)
			admin.PUT("/submissions/:id/moderate", adminHandler.Moderate)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/toggle-admin", adminHandler.ToggleAdmin)
			admin.GET("/evidence/:id", adminHandler.GetEvidence)
		}
	}
}
