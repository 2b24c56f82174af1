package app

import (
	"studysphere_backend/docs"
	"studysphere_backend/internal/config"
	"studysphere_backend/internal/middleware"
	"studysphere_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		// Public reads carry optional auth so owners see their private
		// resources through the same endpoints.
		public.GET("/quizzes/public", c.quiz.ListPublic)
		public.GET("/quizzes/:id", middleware.TryAuthMiddleware(cfg), c.quiz.Get)
		public.GET("/flashcard-sets/:id", middleware.TryAuthMiddleware(cfg), c.flashcard.GetSet)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		quizzes := authGroup.Group("/quizzes")
		{
			quizzes.GET("", c.quiz.List)
			quizzes.POST("", c.quiz.Create)
			quizzes.PUT("/:id", c.quiz.Update)
			quizzes.DELETE("/:id", c.quiz.Delete)
			quizzes.POST("/:id/regenerate", c.quiz.Regenerate)
		}

		attempts := authGroup.Group("/quiz-attempts")
		{
			attempts.GET("", c.attempt.List)
			attempts.POST("", c.attempt.Start)
			attempts.GET("/stats/summary", c.attempt.Summary)
			attempts.GET("/:id", c.attempt.Get)
			attempts.PUT("/:id", c.attempt.SaveProgress)
			attempts.POST("/:id/submit", c.attempt.Submit)
		}

		sets := authGroup.Group("/flashcard-sets")
		{
			sets.GET("", c.flashcard.ListSets)
			sets.POST("", c.flashcard.CreateSet)
			sets.PUT("/:id", c.flashcard.UpdateSet)
			sets.DELETE("/:id", c.flashcard.DeleteSet)
			sets.POST("/:id/cover", c.flashcard.UploadCover)
			sets.POST("/:id/cards", c.flashcard.AddCard)
			sets.PUT("/:id/cards/:cardId", c.flashcard.UpdateCard)
			sets.DELETE("/:id/cards/:cardId", c.flashcard.DeleteCard)
		}

		ai := authGroup.Group("/ai")
		{
			ai.POST("/chat", c.ai.Chat)
			ai.POST("/flashcards", c.ai.GenerateFlashcards)
		}
	}
}
