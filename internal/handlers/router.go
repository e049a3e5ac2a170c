package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	evaluationHandler *EvaluationHandler
	logger            utils.Logger
}

func NewHandlerManager(
	evaluationService services.EvaluationService,
	exportService services.ExportService,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		evaluationHandler: NewEvaluationHandler(evaluationService, exportService, logger),
		logger:            logger,
	}
}

// NewRouter builds the gin engine with the service middlewares and all routes
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.ContextLogger(hm.logger),
		utils.LoggerMiddleware(hm.logger),
		UserIdentity(),
	)
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/evaluate", hm.evaluationHandler.Evaluate)

		questions := v1.Group("/questions")
		{
			questions.POST("/:id/answers", hm.evaluationHandler.SubmitAnswer)
		}

		lessons := v1.Group("/lessons")
		{
			lessons.POST("/:id/submissions", hm.evaluationHandler.SubmitLesson)
			lessons.GET("/:id/results", hm.evaluationHandler.GetLessonResults)
			lessons.GET("/:id/results/export", hm.evaluationHandler.ExportLessonResults)
			lessons.DELETE("/:id/cache", hm.evaluationHandler.InvalidateLessonCache)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "evaluation-service",
	})
}
