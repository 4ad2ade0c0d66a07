package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quiz-platform/quiz-service/internal/middleware"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/services"
	"github.com/quiz-platform/quiz-service/internal/utils"
)

type HandlerManager struct {
	quizHandler       *QuizHandler
	submissionHandler *SubmissionHandler
	serviceManager    services.ServiceManager
	jwtSecret         []byte
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
	jwtSecret []byte,
) *HandlerManager {
	return &HandlerManager{
		quizHandler: NewQuizHandler(serviceManager.Quiz(), validator, logger),
		submissionHandler: NewSubmissionHandler(
			serviceManager.Quiz(),
			serviceManager.Submission(),
			serviceManager.Report(),
			validator,
			logger,
		),
		serviceManager: serviceManager,
		jwtSecret:      jwtSecret,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate(hm.jwtSecret))
	{
		quizzes := v1.Group("/quizzes")
		{
			quizzes.POST("", middleware.RequireRoles(models.RoleModerator, models.RoleAdmin), hm.quizHandler.CreateQuiz)
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.DELETE("/:id", middleware.RequireRoles(models.RoleModerator, models.RoleAdmin), hm.quizHandler.DeleteQuiz)

			quizzes.PATCH("/:id/approve", middleware.RequireRoles(models.RoleAdmin), hm.quizHandler.ApproveQuiz)
			quizzes.PATCH("/:id/reject", middleware.RequireRoles(models.RoleAdmin), hm.quizHandler.RejectQuiz)

			quizzes.POST("/:id/submit", hm.submissionHandler.SubmitQuiz)
			quizzes.GET("/:id/leaderboard", hm.submissionHandler.GetLeaderboard)
			quizzes.POST("/:id/report", middleware.RequireRoles(models.RoleAdmin), hm.submissionHandler.RequestReport)
		}

		results := v1.Group("/results")
		{
			results.GET("/me", hm.submissionHandler.GetMyResults)
		}
	}
}

// HealthCheck returns service health including worker pool occupancy
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	status := hm.serviceManager.Pool().Status()
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "quiz-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"workers": gin.H{
			"active": status.Active,
			"size":   status.Size,
			"queued": status.Queued,
		},
	})
}
