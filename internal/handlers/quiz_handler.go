package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/internal/services"
	"github.com/quiz-platform/quiz-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService services.QuizService
	validator   *utils.Validator
}

func NewQuizHandler(quizService services.QuizService, validator *utils.Validator, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
		validator:   validator,
	}
}

// CreateQuiz creates a new quiz in pending status
// @Summary Create quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param quiz body services.CreateQuizRequest true "Quiz data"
// @Success 201 {object} models.Quiz
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
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

	quiz, err := h.quizService.Create(c.Request.Context(), &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// ListQuizzes lists quizzes visible to the caller
// @Summary List quizzes
// @Tags quizzes
// @Produce json
// @Param status query string false "Status filter (admin only)"
// @Success 200 {array} models.Quiz
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	user, ok := h.identity(c)
	if !ok {
		return
	}

	req := services.ListQuizzesRequest{
		Limit:  h.parseIntQuery(c, "limit", 50),
		Offset: h.parseIntQuery(c, "offset", 0),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.QuizStatus(statusStr)
		req.Status = &status
	}

	quizzes, err := h.quizService.List(c.Request.Context(), &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetQuiz retrieves a quiz by ID
// @Summary Get quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} models.Quiz
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := h.identity(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// ApproveQuiz moves a pending quiz into approved status
// @Summary Approve quiz
// @Tags quizzes
// @Produce json
// @Param id path uint true "Quiz ID"
// @Success 200 {object} models.Quiz
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/approve [patch]
func (h *QuizHandler) ApproveQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := h.identity(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Approving quiz", "quiz_id", id)

	quiz, err := h.quizService.Approve(c.Request.Context(), id, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// RejectQuiz moves a pending quiz into rejected status with a reason
// @Summary Reject quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path uint true "Quiz ID"
// @Param rejection body services.RejectQuizRequest true "Rejection reason"
// @Success 200 {object} models.Quiz
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/reject [patch]
func (h *QuizHandler) RejectQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.RejectQuizRequest
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

	h.LogRequest(c, "Rejecting quiz", "quiz_id", id)

	quiz, err := h.quizService.Reject(c.Request.Context(), id, &req, user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz removes a quiz; recorded results keep their title snapshot
// @Summary Delete quiz
// @Tags quizzes
// @Param id path uint true "Quiz ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id, user); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
