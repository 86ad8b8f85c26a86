package services

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizcraft/quiz-session-service/internal/bank"
	"github.com/quizcraft/quiz-session-service/internal/events"
	"github.com/quizcraft/quiz-session-service/internal/models"
	"github.com/quizcraft/quiz-session-service/internal/scorer"
	"github.com/quizcraft/quiz-session-service/internal/session"
)

// SessionService owns the live session registry and orchestrates the bank,
// the session controllers, and event publishing. One session per ID; all
// state lives in memory, so a restart discards every attempt.
type SessionService interface {
	ListTopics(ctx context.Context) []bank.TopicSummary
	StartSession(ctx context.Context, topicName string) (models.Snapshot, error)
	RecordAnswer(ctx context.Context, sessionID, questionID string, m session.Mutation) (models.Snapshot, error)
	CheckAnswer(ctx context.Context, sessionID string) (scorer.Verdict, models.Snapshot, error)
	Advance(ctx context.Context, sessionID string) (models.Snapshot, error)
	GoBack(ctx context.Context, sessionID string) (models.Snapshot, error)
	Snapshot(ctx context.Context, sessionID string) (models.Snapshot, error)
	Result(ctx context.Context, sessionID string) (models.Result, error)
	Abandon(ctx context.Context, sessionID string) error
	Close() error
}

type sessionService struct {
	mu       sync.Mutex
	sessions map[string]*session.Controller

	bank           *bank.Bank
	grader         *scorer.Grader
	eventPublisher events.EventPublisher
	logger         *slog.Logger

	// seed pins every session's shuffles for replay and debugging; zero
	// means each session gets a time-derived seed.
	seed int64
}

type SessionServiceConfig struct {
	Bank           *bank.Bank
	EventPublisher events.EventPublisher
	Logger         *slog.Logger
	ShuffleSeed    int64
}

func NewSessionService(cfg SessionServiceConfig) SessionService {
	return &sessionService{
		sessions:       make(map[string]*session.Controller),
		bank:           cfg.Bank,
		grader:         scorer.New(),
		eventPublisher: cfg.EventPublisher,
		logger:         cfg.Logger,
		seed:           cfg.ShuffleSeed,
	}
}

func (s *sessionService) ListTopics(_ context.Context) []bank.TopicSummary {
	return s.bank.Summaries()
}

func (s *sessionService) StartSession(ctx context.Context, topicName string) (models.Snapshot, error) {
	allTopics := topicName == bank.AllTopicsName

	var questions []models.Question
	if allTopics {
		questions = s.bank.AllQuestions()
	} else {
		topic, err := s.bank.Topic(topicName)
		if err != nil {
			return models.Snapshot{}, ErrTopicNotFound
		}
		questions = topic.Questions
	}

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	id := uuid.NewString()
	ctrl, err := session.New(session.Config{
		SessionID: id,
		TopicName: topicName,
		Questions: questions,
		Shuffle:   allTopics,
		Rand:      rand.New(rand.NewSource(seed)),
		Grader:    s.grader,
	})
	if err != nil {
		s.logger.Error("Failed to start session", "topic", topicName, "error", err)
		return models.Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[id] = ctrl
	s.mu.Unlock()

	s.logger.Info("Session started",
		"session_id", id,
		"topic", topicName,
		"questions", len(questions),
		"all_topics", allTopics)

	s.publish(ctx, events.NewSessionStartedEvent(id, topicName, len(questions), allTopics))
	return ctrl.Snapshot()
}

func (s *sessionService) RecordAnswer(_ context.Context, sessionID, questionID string, m session.Mutation) (models.Snapshot, error) {
	ctrl, err := s.lookup(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := ctrl.RecordAnswer(questionID, m); err != nil {
		return models.Snapshot{}, err
	}
	return ctrl.Snapshot()
}

func (s *sessionService) CheckAnswer(ctx context.Context, sessionID string) (scorer.Verdict, models.Snapshot, error) {
	ctrl, err := s.lookup(sessionID)
	if err != nil {
		return scorer.Verdict{}, models.Snapshot{}, err
	}

	verdict, err := ctrl.CheckAnswer()
	if err != nil {
		return scorer.Verdict{}, models.Snapshot{}, err
	}

	snap, err := ctrl.Snapshot()
	if err != nil {
		return scorer.Verdict{}, models.Snapshot{}, err
	}

	s.publish(ctx, events.NewQuestionCheckedEvent(
		sessionID, snap.Current.Question.ID, snap.CurrentIndex, verdict.Correct))
	return verdict, snap, nil
}

func (s *sessionService) Advance(ctx context.Context, sessionID string) (models.Snapshot, error) {
	ctrl, err := s.lookup(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}

	done, err := ctrl.Advance()
	if err != nil {
		return models.Snapshot{}, err
	}

	if done {
		res, err := ctrl.Result()
		if err != nil {
			return models.Snapshot{}, err
		}
		s.logger.Info("Session completed",
			"session_id", sessionID,
			"score", res.Score,
			"total", res.Total,
			"percentage", res.Percentage)
		s.publish(ctx, events.NewSessionCompletedEvent(
			sessionID, res.TopicName, res.Score, res.Total, res.Percentage,
			string(res.Band), res.ElapsedSeconds))
	}

	return ctrl.Snapshot()
}

func (s *sessionService) GoBack(_ context.Context, sessionID string) (models.Snapshot, error) {
	ctrl, err := s.lookup(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	if err := ctrl.GoBack(); err != nil {
		return models.Snapshot{}, err
	}
	return ctrl.Snapshot()
}

func (s *sessionService) Snapshot(_ context.Context, sessionID string) (models.Snapshot, error) {
	ctrl, err := s.lookup(sessionID)
	if err != nil {
		return models.Snapshot{}, err
	}
	return ctrl.Snapshot()
}

func (s *sessionService) Result(_ context.Context, sessionID string) (models.Result, error) {
	ctrl, err := s.lookup(sessionID)
	if err != nil {
		return models.Result{}, err
	}
	return ctrl.Result()
}

// Abandon discards the session and stops its ticker. The snapshot is taken
// first so the abandonment event can carry the position and elapsed time.
func (s *sessionService) Abandon(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	ctrl, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	snap, snapErr := ctrl.Snapshot()
	ctrl.Stop()

	s.logger.Info("Session abandoned", "session_id", sessionID)
	if snapErr == nil {
		s.publish(ctx, events.NewSessionAbandonedEvent(
			sessionID, snap.TopicName, snap.CurrentIndex, snap.ElapsedSeconds))
	}
	return nil
}

// Close stops every live session's ticker.
func (s *sessionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ctrl := range s.sessions {
		ctrl.Stop()
		delete(s.sessions, id)
	}
	return nil
}

func (s *sessionService) lookup(sessionID string) (*session.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctrl, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// publish sends a lifecycle event. Publishing is observational; a failure
// is logged and never fails the user intent that triggered it.
func (s *sessionService) publish(ctx context.Context, event *events.SessionEvent) {
	if err := s.eventPublisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish session event",
			"event_type", event.Type,
			"error", err)
	}
}
