package routes

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"idea-portfolio-api/config"
	"idea-portfolio-api/controllers"
	"idea-portfolio-api/middleware"
	"idea-portfolio-api/models"
	"idea-portfolio-api/monitor"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Idea Portfolio API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			reviewers := middleware.RequireRole(models.RoleReviewer, models.RoleAdmin)
			executives := middleware.RequireRole(models.RoleExecutive, models.RoleAdmin)
			admins := middleware.RequireRole(models.RoleAdmin)

			// Ideas
			ideas := protected.Group("/ideas")
			{
				// export is registered before /:id so it is not read as an id
				ideas.GET("/export", gzip.Gzip(gzip.DefaultCompression), controllers.ExportIdeas)

				ideas.GET("", controllers.ListIdeas)
				ideas.POST("", controllers.CreateIdea)
				ideas.GET("/:id", controllers.GetIdea)
				ideas.PUT("/:id", controllers.UpdateIdea)
				ideas.DELETE("/:id", admins, controllers.DeleteIdea)
				ideas.GET("/:id/history", controllers.GetIdeaHistory)

				// Stage gates
				ideas.POST("/:id/evaluations/l1", reviewers, controllers.SubmitL1Intake)
				ideas.POST("/:id/evaluations/l2", reviewers, controllers.SubmitL2Screening)
				ideas.POST("/:id/evaluations/l3", reviewers, controllers.SubmitL3BusinessCase)
				ideas.POST("/:id/evaluations/l4", reviewers, controllers.SubmitL4Feasibility)
				ideas.POST("/:id/evaluations/l5", executives, controllers.SubmitL5ExecutiveDecision)
			}

			// Evaluation policy and calculators
			evaluation := protected.Group("/evaluation")
			{
				evaluation.POST("/financials", controllers.PreviewFinancials)
				evaluation.GET("/policy", controllers.GetEvaluationPolicy)
				evaluation.PUT("/policy/:stage", admins, controllers.UpdateEvaluationPolicy)
			}

			// Projects
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.ListProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.POST("", reviewers, controllers.CreateProject)
				projects.PUT("/:id", reviewers, controllers.UpdateProject)
				projects.DELETE("/:id", admins, controllers.DeleteProject)

				projects.GET("/:id/milestones", controllers.ListMilestones)
				projects.POST("/:id/milestones", reviewers, controllers.CreateMilestone)
			}

			milestones := protected.Group("/milestones")
			{
				milestones.PUT("/:id", reviewers, controllers.UpdateMilestone)
				milestones.DELETE("/:id", reviewers, controllers.DeleteMilestone)
			}

			// Vendor contracts
			contracts := protected.Group("/vendor-contracts")
			{
				contracts.GET("", controllers.ListVendorContracts)
				contracts.GET("/:id", controllers.GetVendorContract)
				contracts.POST("", admins, controllers.CreateVendorContract)
				contracts.PUT("/:id", admins, controllers.UpdateVendorContract)
				contracts.DELETE("/:id", admins, controllers.DeleteVendorContract)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.ListNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			dashboard.Use(gzip.Gzip(gzip.DefaultCompression))
			{
				dashboard.GET("/pipeline", controllers.GetPipelineDashboard)
				dashboard.GET("/portfolio", controllers.GetPortfolioDashboard)
			}

			// Admin
			admin := protected.Group("/admin", admins)
			{
				admin.GET("/logs", monitor.LogsHandler(config.LogFilePath))
			}
		}
	}

	// Handle 404
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Endpoint not found",
			"path":    c.Request.URL.Path,
		})
	})
}
