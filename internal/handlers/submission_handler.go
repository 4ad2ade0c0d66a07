package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quiz-platform/quiz-service/internal/repositories"
	"github.com/quiz-platform/quiz-service/internal/services"
	"github.com/quiz-platform/quiz-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	quizService       services.QuizService
	submissionService services.SubmissionService
	reportService     services.ReportService
	validator         *utils.Validator
}

func NewSubmissionHandler(
	quizService services.QuizService,
	submissionService services.SubmissionService,
	reportService services.ReportService,
	validator *utils.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		quizService:       quizService,
		submissionService: submissionService,
		reportService:     reportService,
		validator:         validator,
	}
}

// SubmitQuiz accepts a submission for asynchronous scoring
// @Summary Submit quiz answers
// @Description Queues the submission for scoring and returns immediately; the
// score is delivered by mail and appears on the leaderboard once processed.
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param submission body services.SubmitQuizRequest true "Answers"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/submit [post]
func (h *SubmissionHandler) SubmitQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.submissionService.Submit(c.Request.Context(), id, user, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "processing"})
}

// GetLeaderboard returns ranked results for a quiz
// @Summary Quiz leaderboard
// @Tags submissions
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {array} models.Result
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/leaderboard [get]
func (h *SubmissionHandler) GetLeaderboard(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if _, ok := h.identity(c); !ok {
		return
	}

	filters := repositories.ResultFilters{
		Limit:  h.parseIntQuery(c, "limit", 0),
		Offset: h.parseIntQuery(c, "offset", 0),
	}

	results, err := h.quizService.Leaderboard(c.Request.Context(), id, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetMyResults returns the caller's submission history
// @Summary Player result history
// @Tags submissions
// @Produce json
// @Success 200 {array} models.Result
// @Router /results/me [get]
func (h *SubmissionHandler) GetMyResults(c *gin.Context) {
	user, ok := h.identity(c)
	if !ok {
		return
	}

	filters := repositories.ResultFilters{
		Limit:  h.parseIntQuery(c, "limit", 50),
		Offset: h.parseIntQuery(c, "offset", 0),
	}

	results, err := h.quizService.PlayerResults(c.Request.Context(), user, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// RequestReport queues report generation for a quiz
// @Summary Request quiz report
// @Description Queues rendering of the quiz results report; the document is
// mailed to the requesting administrator.
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param report body services.ReportRequest false "Report options"
// @Success 202 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/report [post]
func (h *SubmissionHandler) RequestReport(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}

	user, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.reportService.RequestReport(c.Request.Context(), id, user, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}
