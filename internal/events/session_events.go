package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the session lifecycle events the engine publishes.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventQuestionChecked  EventType = "question.checked"
	EventSessionCompleted EventType = "session.completed"
	EventSessionAbandoned EventType = "session.abandoned"
)

// SessionEvent is the envelope for all published events. Subscribers (the
// UI's mascot reactions, audit logs) consume these without the engine
// knowing about them.
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type SessionStartedEvent struct {
	SessionID     string    `json:"session_id"`
	TopicName     string    `json:"topic_name"`
	QuestionCount int       `json:"question_count"`
	AllTopics     bool      `json:"all_topics"`
	StartedAt     time.Time `json:"started_at"`
}

type QuestionCheckedEvent struct {
	SessionID     string    `json:"session_id"`
	QuestionID    string    `json:"question_id"`
	QuestionIndex int       `json:"question_index"`
	Correct       bool      `json:"correct"`
	CheckedAt     time.Time `json:"checked_at"`
}

type SessionCompletedEvent struct {
	SessionID      string    `json:"session_id"`
	TopicName      string    `json:"topic_name"`
	Score          int       `json:"score"`
	Total          int       `json:"total"`
	Percentage     int       `json:"percentage"`
	Band           string    `json:"band"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	CompletedAt    time.Time `json:"completed_at"`
}

type SessionAbandonedEvent struct {
	SessionID      string    `json:"session_id"`
	TopicName      string    `json:"topic_name"`
	QuestionIndex  int       `json:"question_index"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	AbandonedAt    time.Time `json:"abandoned_at"`
}

// Event factory functions

func NewSessionStartedEvent(sessionID, topicName string, questionCount int, allTopics bool) *SessionEvent {
	now := time.Now()
	return newEvent(EventSessionStarted, SessionStartedEvent{
		SessionID:     sessionID,
		TopicName:     topicName,
		QuestionCount: questionCount,
		AllTopics:     allTopics,
		StartedAt:     now,
	})
}

func NewQuestionCheckedEvent(sessionID, questionID string, questionIndex int, correct bool) *SessionEvent {
	return newEvent(EventQuestionChecked, QuestionCheckedEvent{
		SessionID:     sessionID,
		QuestionID:    questionID,
		QuestionIndex: questionIndex,
		Correct:       correct,
		CheckedAt:     time.Now(),
	})
}

func NewSessionCompletedEvent(sessionID, topicName string, score, total, percentage int, band string, elapsedSeconds int) *SessionEvent {
	return newEvent(EventSessionCompleted, SessionCompletedEvent{
		SessionID:      sessionID,
		TopicName:      topicName,
		Score:          score,
		Total:          total,
		Percentage:     percentage,
		Band:           band,
		ElapsedSeconds: elapsedSeconds,
		CompletedAt:    time.Now(),
	})
}

func NewSessionAbandonedEvent(sessionID, topicName string, questionIndex, elapsedSeconds int) *SessionEvent {
	return newEvent(EventSessionAbandoned, SessionAbandonedEvent{
		SessionID:      sessionID,
		TopicName:      topicName,
		QuestionIndex:  questionIndex,
		ElapsedSeconds: elapsedSeconds,
		AbandonedAt:    time.Now(),
	})
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "quiz-session-service",
		Version:   "1.0",
		Data:      data,
	}
}
