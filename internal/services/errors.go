package services

import (
	"errors"

	apperrors "github.com/quizcraft/quiz-session-service/internal/errors"
	"github.com/quizcraft/quiz-session-service/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Registry errors
	ErrSessionNotFound = errors.New("session not found")
	ErrTopicNotFound   = errors.New("topic not found")

	// Generic errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR CLASSIFIERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrTopicNotFound) ||
		errors.Is(err, session.ErrUnknownQuestion)
}

// IsConfiguration checks if error represents malformed question-bank or
// working-set data. These abort session start; they never surface as wrong
// scores later.
func IsConfiguration(err error) bool {
	if errors.Is(err, session.ErrEmptyWorkingSet) ||
		errors.Is(err, session.ErrDuplicateQuestion) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsIllegalTransition checks if error represents a state-machine rule the
// caller tried to break: checking an incomplete answer, advancing before
// checking, mutating a frozen question.
func IsIllegalTransition(err error) bool {
	return errors.Is(err, session.ErrQuestionChecked) ||
		errors.Is(err, session.ErrAnswerIncomplete) ||
		errors.Is(err, session.ErrAdvanceBeforeCheck) ||
		errors.Is(err, session.ErrSessionComplete) ||
		errors.Is(err, session.ErrSessionNotComplete) ||
		errors.Is(err, session.ErrNotCurrentQuestion) ||
		errors.Is(err, session.ErrMutationMismatch)
}

// IsOutOfRange checks if error represents an out-of-range index in an
// answer mutation
func IsOutOfRange(err error) bool {
	return errors.Is(err, session.ErrIndexOutOfRange)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}
