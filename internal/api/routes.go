package api

import (
	"net/http"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	generationService service.GenerationService,
	flagService service.FlagService,
) {
	generationHandler := NewGenerationHandler(generationService)
	flagHandler := NewFlagHandler(flagService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Generation job routes ---
		jobGroup := protected.Group("/generation/jobs")
		{
			jobGroup.POST("", generationHandler.CreateJob)
			jobGroup.GET("", generationHandler.ListJobs)
			jobGroup.GET("/:jobId", generationHandler.GetJob)
			jobGroup.POST("/:jobId/dispatch", generationHandler.Dispatch)
		}

		// --- Program export ---
		protected.GET("/programs/:jobId/export", generationHandler.ExportProgram)

		// --- Flag administration ---
		// All flag writes and reads are admin-only; athletes never see flag
		// state directly, only its effect on generation.
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/flags", flagHandler.ListFlags)
			adminGroup.GET("/flags/:name", flagHandler.GetFlag)
			adminGroup.PUT("/flags/:name", flagHandler.UpdateFlag)
			adminGroup.PUT("/flags/:name/overrides/:userId", flagHandler.SetUserOverride)
			adminGroup.DELETE("/flags/:name/overrides/:userId", flagHandler.ClearUserOverride)
		}
	}
}
