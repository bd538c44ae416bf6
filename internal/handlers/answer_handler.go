package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/mockmate/internal/domains/answer"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// AnswerHandler serves scored answers and feedback summaries
type AnswerHandler struct {
	answerService answer.AnswerService
	logger        *Logger.Logger
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerService answer.AnswerService, logger *Logger.Logger) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
		logger:        logger,
	}
}

// Feedback handles the feedback summary for one interview
// @Summary Get interview feedback
// @Description Get all scored answers for an interview plus the average rating
// @Tags Answers
// @Produce json
// @Security BearerAuth
// @Param mockId path string true "Interview mock ID"
// @Success 200 {object} FeedbackSummaryResponse "Scored answers and average rating"
// @Failure 404 {object} ErrorResponse "No answers recorded for this interview"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /interviews/{mockId}/feedback [get]
func (h *AnswerHandler) Feedback(c *gin.Context) {
	mockID := c.Param("mockId")

	records, average, err := h.answerService.ListByInterview(c.Request.Context(), mockID)
	if err != nil {
		if errors.Is(err, answer.ErrNoAnswers) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No answers recorded for this interview"})
			return
		}
		h.logger.Errorf("feedback listing error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, FeedbackSummaryResponse{
		MockID:        mockID,
		Answers:       records,
		AverageRating: average,
	})
}
