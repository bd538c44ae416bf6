package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/mockmate/internal/domains/interview"
	"github.com/xpanvictor/mockmate/pkg/Logger"
)

// InterviewHandler handles mock interview HTTP requests
type InterviewHandler struct {
	interviewService interview.InterviewService
	logger           *Logger.Logger
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewService interview.InterviewService, logger *Logger.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		logger:           logger,
	}
}

// Create handles interview creation
// @Summary Create a mock interview
// @Description Generate a question set for a job position and store the interview
// @Tags Interviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body interview.CreateInterviewRequest true "Interview setup data"
// @Success 201 {object} CreateInterviewResponse "Interview created successfully"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 502 {object} ErrorResponse "Question generation failed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /interviews [post]
func (h *InterviewHandler) Create(c *gin.Context) {
	info, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	var req interview.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	created, err := h.interviewService.Create(c.Request.Context(), info.Email, req)
	if err != nil {
		if errors.Is(err, interview.ErrGenerationFailed) {
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Question generation failed", Details: err.Error()})
			return
		}
		h.logger.Errorf("interview creation error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, CreateInterviewResponse{
		Message:   "Interview created successfully",
		Interview: *created,
	})
}

// Get handles fetching one interview
// @Summary Get a mock interview
// @Description Get one interview with its parsed question list
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param mockId path string true "Interview mock ID"
// @Success 200 {object} InterviewDetailResponse "Interview data"
// @Failure 404 {object} ErrorResponse "Interview not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /interviews/{mockId} [get]
func (h *InterviewHandler) Get(c *gin.Context) {
	mockID := c.Param("mockId")

	record, err := h.interviewService.Get(c.Request.Context(), mockID)
	if err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Interview not found"})
			return
		}
		h.logger.Errorf("get interview error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, InterviewDetailResponse{Interview: *record})
}

// List handles listing the caller's interviews
// @Summary List mock interviews
// @Description List interviews created by the authenticated user, newest first
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(20)
// @Success 200 {object} ListInterviewsResponse "Interview list"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /interviews [get]
func (h *InterviewHandler) List(c *gin.Context) {
	info, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	interviews, total, err := h.interviewService.ListByCreator(c.Request.Context(), info.Email, offset, limit)
	if err != nil {
		h.logger.Errorf("list interviews error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ListInterviewsResponse{
		Interviews: interviews,
		Pagination: PaginationInfo{Total: total, Offset: offset, Limit: limit},
	})
}

// Delete handles deleting one interview
// @Summary Delete a mock interview
// @Description Delete one interview by its mock ID
// @Tags Interviews
// @Produce json
// @Security BearerAuth
// @Param mockId path string true "Interview mock ID"
// @Success 200 {object} SuccessResponse "Interview deleted"
// @Failure 404 {object} ErrorResponse "Interview not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /interviews/{mockId} [delete]
func (h *InterviewHandler) Delete(c *gin.Context) {
	mockID := c.Param("mockId")

	if err := h.interviewService.Delete(c.Request.Context(), mockID); err != nil {
		if errors.Is(err, interview.ErrInterviewNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Interview not found"})
			return
		}
		h.logger.Errorf("delete interview error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Interview deleted successfully"})
}
