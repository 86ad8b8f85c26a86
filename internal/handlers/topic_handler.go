package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizcraft/quiz-session-service/internal/services"
	"github.com/quizcraft/quiz-session-service/internal/utils"
)

type TopicHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewTopicHandler(sessionService services.SessionService, logger utils.Logger) *TopicHandler {
	return &TopicHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// ListTopics returns every topic name with its question count, plus the
// all-topics pseudo entry
// @Router /topics [get]
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics := h.sessionService.ListTopics(c.Request.Context())
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Topics retrieved successfully",
		Data:    topics,
	})
}
