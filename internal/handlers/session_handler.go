package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizcraft/quiz-session-service/internal/services"
	"github.com/quizcraft/quiz-session-service/internal/session"
	"github.com/quizcraft/quiz-session-service/internal/utils"
	"github.com/quizcraft/quiz-session-service/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	validator      *validator.Validator
}

type StartSessionRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type RecordAnswerRequest struct {
	QuestionID string           `json:"question_id" validate:"required"`
	Mutation   session.Mutation `json:"mutation" validate:"required"`
}

func NewSessionHandler(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		validator:      validator,
	}
}

// StartSession creates a new quiz session for a topic. The reserved topic
// name "All Topics" starts an all-topics session over the shuffled
// concatenation of every topic's questions
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Starting session", "topic", req.Topic)

	snap, err := h.sessionService.StartSession(c.Request.Context(), req.Topic)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Session started successfully",
		Data:    snap,
	})
}

// GetSnapshot returns the current session view
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSnapshot(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Snapshot(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session retrieved successfully",
		Data:    snap,
	})
}

// RecordAnswer applies one answer mutation to the current question
// @Router /sessions/{id}/answer [post]
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	snap, err := h.sessionService.RecordAnswer(c.Request.Context(), id, req.QuestionID, req.Mutation)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Answer recorded successfully",
		Data:    snap,
	})
}

// CheckAnswer validates and grades the current question's answer, freezing
// further mutation. An incomplete answer is rejected with 409 and the
// question stays unanswered
// @Router /sessions/{id}/check [post]
func (h *SessionHandler) CheckAnswer(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	verdict, snap, err := h.sessionService.CheckAnswer(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Answer checked successfully",
		Data: gin.H{
			"correct":  verdict.Correct,
			"items":    verdict.Items,
			"snapshot": snap,
		},
	})
}

// Advance moves to the next question; from the last question it completes
// the session
// @Router /sessions/{id}/advance [post]
func (h *SessionHandler) Advance(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.Advance(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Advanced successfully",
		Data:    snap,
	})
}

// GoBack moves to the previous question for review; a no-op at the first
// question
// @Router /sessions/{id}/back [post]
func (h *SessionHandler) GoBack(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.sessionService.GoBack(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Moved back successfully",
		Data:    snap,
	})
}

// GetResult returns the final score and per-question review. Only valid
// once the session is complete
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.sessionService.Result(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Result retrieved successfully",
		Data:    result,
	})
}

// Abandon discards the session
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Abandon(c *gin.Context) {
	id := h.parseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Abandoning session", "session_id", id)

	if err := h.sessionService.Abandon(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Session abandoned successfully",
	})
}
