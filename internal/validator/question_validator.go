package validator

import (
	"fmt"
	"strings"

	"github.com/quizcraft/quiz-session-service/internal/models"
)

// QuestionValidator checks the per-type invariants of bank questions.
// Everything here runs at load / working-set build time: a question that
// passes is guaranteed scorable, so the scorer never has to defend against
// malformed data.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if question.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if strings.TrimSpace(question.Prompt) == "" {
		return fmt.Errorf("question prompt is required")
	}
	if len(question.Options) == 0 {
		return fmt.Errorf("question must have at least 1 option")
	}

	switch question.Type {
	case models.Choice:
		return v.validateChoice(question)
	case models.FillInTheBlank:
		return v.validateFillInTheBlank(question)
	case models.Ranking:
		return v.validateRanking(question)
	case models.Matching:
		return v.validateMatching(question)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// ValidateTopic validates every question in a topic and checks that
// question ids are unique within it.
func (v *QuestionValidator) ValidateTopic(topic *models.Topic) error {
	if topic.Name == "" {
		return fmt.Errorf("topic name is required")
	}
	if len(topic.Questions) == 0 {
		return fmt.Errorf("topic %q has no questions", topic.Name)
	}

	seen := make(map[string]bool, len(topic.Questions))
	for i := range topic.Questions {
		q := &topic.Questions[i]
		if err := v.ValidateQuestion(q); err != nil {
			return fmt.Errorf("topic %q question %d (%s): %w", topic.Name, i+1, q.ID, err)
		}
		if seen[q.ID] {
			return fmt.Errorf("topic %q has duplicate question id %q", topic.Name, q.ID)
		}
		seen[q.ID] = true
	}

	return nil
}

// ValidateWorkingSet checks that question ids are unique across an already
// per-topic-validated question sequence. Used when sessions concatenate
// multiple topics.
func (v *QuestionValidator) ValidateWorkingSet(questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("working set cannot be empty")
	}
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q in working set", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

// Private validation methods for each question type

func (v *QuestionValidator) validateChoice(q *models.Question) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("choice question must have at least 2 options")
	}

	correct := 0
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("option %d text cannot be empty", i+1)
		}
		if opt.IsCorrect {
			correct++
		}
	}

	if correct == 0 {
		return fmt.Errorf("choice question must have at least 1 correct option")
	}
	if correct > 1 && !q.MultiSelect {
		return fmt.Errorf("multiple correct options require multiSelect to be true")
	}

	return nil
}

func (v *QuestionValidator) validateFillInTheBlank(q *models.Question) error {
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("blank %d expected text cannot be empty", i+1)
		}
	}
	return nil
}

func (v *QuestionValidator) validateRanking(q *models.Question) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("ranking question must have at least 2 items")
	}

	// Ranks must form a contiguous 1..N permutation with no gaps or
	// duplicates; anything else would make the canonical order ambiguous.
	seen := make(map[int]bool, len(q.Options))
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Text) == "" {
			return fmt.Errorf("item %d text cannot be empty", i+1)
		}
		if opt.Rank < 1 || opt.Rank > len(q.Options) {
			return fmt.Errorf("item %d rank %d is outside 1..%d", i+1, opt.Rank, len(q.Options))
		}
		if seen[opt.Rank] {
			return fmt.Errorf("duplicate rank %d", opt.Rank)
		}
		seen[opt.Rank] = true
	}

	return nil
}

func (v *QuestionValidator) validateMatching(q *models.Question) error {
	if len(q.Options) < 2 {
		return fmt.Errorf("matching question must have at least 2 pairs")
	}

	symbols := make(map[string]bool, len(q.Options))
	descriptions := make(map[string]bool, len(q.Options))
	for i, opt := range q.Options {
		if strings.TrimSpace(opt.Symbol) == "" {
			return fmt.Errorf("pair %d symbol cannot be empty", i+1)
		}
		if strings.TrimSpace(opt.Description) == "" {
			return fmt.Errorf("pair %d description cannot be empty", i+1)
		}
		if symbols[opt.Symbol] {
			return fmt.Errorf("duplicate symbol %q", opt.Symbol)
		}
		if descriptions[opt.Description] {
			return fmt.Errorf("duplicate description %q", opt.Description)
		}
		symbols[opt.Symbol] = true
		descriptions[opt.Description] = true
	}

	return nil
}
