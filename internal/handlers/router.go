package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quizcraft/quiz-session-service/internal/services"
	"github.com/quizcraft/quiz-session-service/internal/utils"
	"github.com/quizcraft/quiz-session-service/internal/validator"
)

type HandlerManager struct {
	topicHandler   *TopicHandler
	sessionHandler *SessionHandler
}

func NewHandlerManager(
	sessionService services.SessionService,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		topicHandler:   NewTopicHandler(sessionService, logger),
		sessionHandler: NewSessionHandler(sessionService, validator, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Topic routes
		topics := v1.Group("/topics")
		{
			topics.GET("", hm.topicHandler.ListTopics)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSnapshot)
			sessions.POST("/:id/answer", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/check", hm.sessionHandler.CheckAnswer)
			sessions.POST("/:id/advance", hm.sessionHandler.Advance)
			sessions.POST("/:id/back", hm.sessionHandler.GoBack)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.DELETE("/:id", hm.sessionHandler.Abandon)
		}
	}
}
