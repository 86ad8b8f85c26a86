package session

import "errors"

// Transition and navigation errors surfaced to the caller. The presentation
// layer is expected to prompt the user on these; the controller never
// auto-corrects an illegal intent.
var (
	ErrEmptyWorkingSet    = errors.New("working set has no questions")
	ErrDuplicateQuestion  = errors.New("duplicate question id in working set")
	ErrUnknownQuestion    = errors.New("question is not part of this session")
	ErrNotCurrentQuestion = errors.New("question is not the current question")
	ErrQuestionChecked    = errors.New("question is already checked and frozen")
	ErrAnswerIncomplete   = errors.New("answer is incomplete")
	ErrAdvanceBeforeCheck = errors.New("current question must be checked before advancing")
	ErrSessionComplete    = errors.New("session is already complete")
	ErrSessionNotComplete = errors.New("session is not complete yet")
	ErrMutationMismatch   = errors.New("mutation does not match the question type")
	ErrIndexOutOfRange    = errors.New("index out of range")
)
