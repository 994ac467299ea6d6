package routes

import (
	"scholarly-journal-api/controllers"
	"scholarly-journal-api/middleware"
	"scholarly-journal-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Scholarly Journal API is running",
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

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.GET("", controllers.GetManuscripts)
				manuscripts.GET("/:id", controllers.GetManuscript)
				manuscripts.GET("/:id/history", controllers.GetManuscriptStatusHistory)

				// Researchers own drafts and submissions
				manuscripts.POST("", middleware.RequireRole(models.RoleResearcher), controllers.CreateManuscript)
				manuscripts.PUT("/:id", middleware.RequireRole(models.RoleResearcher), controllers.UpdateManuscript)
				manuscripts.DELETE("/:id", middleware.RequireRole(models.RoleResearcher), controllers.DeleteManuscript)
				manuscripts.POST("/:id/submit", middleware.RequireRole(models.RoleResearcher), controllers.SubmitManuscript)
				manuscripts.POST("/:id/revision", middleware.RequireRole(models.RoleResearcher), controllers.SubmitManuscriptRevision)

				// Editors decide and publish
				manuscripts.POST("/:id/decision", middleware.RequireRole(models.RoleEditor), controllers.DecideManuscript)
				manuscripts.POST("/:id/publish", middleware.RequireRole(models.RoleEditor), controllers.PublishManuscript)

				// Reviewer assignments per manuscript
				manuscripts.POST("/:id/assignments", middleware.RequireRole(models.RoleEditor), controllers.CreateAssignment)
				manuscripts.GET("/:id/assignments", middleware.RequireRole(models.RoleEditor), controllers.GetManuscriptAssignments)

				// Reviews per manuscript
				manuscripts.POST("/:id/review/draft", middleware.RequireRole(models.RoleReviewer), controllers.SaveReviewDraft)
				manuscripts.POST("/:id/review", middleware.RequireRole(models.RoleReviewer), controllers.SubmitReview)
				manuscripts.GET("/:id/review", middleware.RequireRole(models.RoleReviewer), controllers.GetMyReview)
				manuscripts.GET("/:id/reviews", middleware.RequireRole(models.RoleEditor), controllers.GetManuscriptReviews)

				// Revision rounds
				manuscripts.GET("/:id/revisions", controllers.GetManuscriptRevisions)
				manuscripts.GET("/:id/revisions/pending", controllers.GetPendingRevision)
			}

			// Assignments (reviewer side)
			assignments := protected.Group("/assignments")
			{
				assignments.GET("", middleware.RequireRole(models.RoleReviewer), controllers.GetMyAssignments)
				assignments.POST("/:id/respond", middleware.RequireRole(models.RoleReviewer), controllers.RespondToAssignment)
				assignments.DELETE("/:id", middleware.RequireRole(models.RoleEditor), controllers.RemoveAssignment)
				assignments.GET("/stats", controllers.GetReviewerStats)
			}

			// Revisions
			revisions := protected.Group("/revisions")
			{
				revisions.GET("/:revision_id/compare", controllers.CompareRevision)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.POST("/upload", controllers.UploadDocument)
				documents.GET("/download/:file_id", controllers.DownloadDocument)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
