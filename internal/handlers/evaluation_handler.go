package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EvaluationHandler struct {
	BaseHandler
	evaluationService services.EvaluationService
	exportService     services.ExportService
}

func NewEvaluationHandler(
	evaluationService services.EvaluationService,
	exportService services.ExportService,
	logger utils.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		BaseHandler:       NewBaseHandler(logger),
		evaluationService: evaluationService,
		exportService:     exportService,
	}
}

// Evaluate grades a question supplied in the request body
// @Summary Evaluate answer
// @Description Scores an answer against the given question without storing anything
// @Tags evaluation
// @Accept json
// @Produce json
// @Param request body services.EvaluateRequest true "Question and answer"
// @Success 200 {object} models.EvaluationResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /evaluate [post]
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	h.LogRequest(c, "Evaluating answer")

	var req services.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.evaluationService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitAnswer evaluates and stores a single answer
// @Summary Submit answer
// @Description Evaluates an answer for a stored question and records a new attempt
// @Tags evaluation
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param X-User-ID header string true "User ID"
// @Success 201 {object} services.AnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id}/answers [post]
func (h *EvaluationHandler) SubmitAnswer(c *gin.Context) {
	questionID := ParseStringIDParam(c, "id")
	if questionID == "" {
		return
	}

	h.LogRequest(c, "Submitting answer", "question_id", questionID)

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.QuestionID = questionID

	resp, err := h.evaluationService.SubmitAnswer(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SubmitLesson evaluates every answer of a lesson at once
// @Summary Submit lesson
// @Description Evaluates a lesson submission, stores the answers and credits points on first completion
// @Tags evaluation
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param X-User-ID header string true "User ID"
// @Success 201 {object} models.LessonResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /lessons/{id}/submissions [post]
func (h *EvaluationHandler) SubmitLesson(c *gin.Context) {
	lessonID := ParseStringIDParam(c, "id")
	if lessonID == "" {
		return
	}

	h.LogRequest(c, "Submitting lesson", "lesson_id", lessonID)

	var req services.SubmitLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.LessonID = lessonID

	result, err := h.evaluationService.SubmitLesson(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetLessonResults returns the latest evaluated attempt per question
// @Summary Get lesson results
// @Tags evaluation
// @Produce json
// @Param id path string true "Lesson ID"
// @Param X-User-ID header string true "User ID"
// @Success 200 {object} models.LessonResult
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id}/results [get]
func (h *EvaluationHandler) GetLessonResults(c *gin.Context) {
	lessonID := ParseStringIDParam(c, "id")
	if lessonID == "" {
		return
	}

	h.LogRequest(c, "Getting lesson results", "lesson_id", lessonID)

	result, err := h.evaluationService.GetLessonResults(c.Request.Context(), lessonID, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// InvalidateLessonCache drops cached question definitions of a lesson
// @Summary Invalidate lesson cache
// @Description Called after lesson questions were edited so that new submissions see the changes
// @Tags evaluation
// @Param id path string true "Lesson ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id}/cache [delete]
func (h *EvaluationHandler) InvalidateLessonCache(c *gin.Context) {
	lessonID := ParseStringIDParam(c, "id")
	if lessonID == "" {
		return
	}

	h.LogRequest(c, "Invalidating lesson cache", "lesson_id", lessonID)

	if err := h.evaluationService.InvalidateLessonCache(c.Request.Context(), lessonID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ExportLessonResults downloads all stored answers of a lesson
// @Summary Export lesson results
// @Tags evaluation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Lesson ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id}/results/export [get]
func (h *EvaluationHandler) ExportLessonResults(c *gin.Context) {
	lessonID := ParseStringIDParam(c, "id")
	if lessonID == "" {
		return
	}

	h.LogRequest(c, "Exporting lesson results", "lesson_id", lessonID)

	data, err := h.exportService.ExportLessonResults(c.Request.Context(), lessonID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=lesson_%s_results.xlsx", lessonID))
	c.Data(http.StatusOK, xlsxContentType, data)
}
