// Package scorer holds the pure correctness rules for every question type.
// Nothing here carries state: a verdict is a function of (question, answer)
// and can be recomputed at any time.
package scorer

import (
	"fmt"
	"strings"

	"github.com/quizcraft/quiz-session-service/internal/models"
)

// Verdict is the outcome of grading one question: the all-or-nothing
// correctness flag plus the per-item breakdown the review screen renders.
type Verdict struct {
	Correct bool
	Items   []models.ItemReview
}

// Strategy grades a single question type.
type Strategy interface {
	// Complete reports whether the recorded answer satisfies the
	// check-time completeness precondition; a non-nil error names what is
	// missing.
	Complete(q *models.Question, a *models.AnswerRecord) error
	// Grade computes the verdict. Callers must have passed Complete first;
	// an incomplete answer simply grades as incorrect.
	Grade(q *models.Question, a *models.AnswerRecord) Verdict
}

// Grader routes by question type to the correct Strategy. The strategy map
// covers every QuestionType constant; an unknown type is an error, never a
// silent skip.
type Grader struct {
	strategies map[models.QuestionType]Strategy
}

// New installs the built-in strategies.
func New() *Grader {
	return &Grader{
		strategies: map[models.QuestionType]Strategy{
			models.Choice:         choiceStrategy{},
			models.FillInTheBlank: fillBlankStrategy{},
			models.Ranking:        rankingStrategy{},
			models.Matching:       matchingStrategy{},
		},
	}
}

// Complete checks the completeness precondition for q's recorded answer.
func (g *Grader) Complete(q *models.Question, a *models.AnswerRecord) error {
	s, ok := g.strategies[q.Type]
	if !ok {
		return fmt.Errorf("no strategy for question type %s", q.Type)
	}
	return s.Complete(q, a)
}

// Grade computes the verdict for one question.
func (g *Grader) Grade(q *models.Question, a *models.AnswerRecord) (Verdict, error) {
	s, ok := g.strategies[q.Type]
	if !ok {
		return Verdict{}, fmt.Errorf("no strategy for question type %s", q.Type)
	}
	return s.Grade(q, a), nil
}

// ScoreSession counts correct questions across a working set. The score is
// always derived from scratch; it is never accumulated incrementally.
func (g *Grader) ScoreSession(questions []models.Question, answers map[string]models.AnswerRecord) (int, error) {
	score := 0
	for i := range questions {
		q := &questions[i]
		a := answers[q.ID]
		verdict, err := g.Grade(q, &a)
		if err != nil {
			return 0, err
		}
		if verdict.Correct {
			score++
		}
	}
	return score, nil
}

// Percentage converts a score into a rounded whole-number percentage.
func Percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return (score*100 + total/2) / total
}

// --- Strategies ---

type choiceStrategy struct{}

func (choiceStrategy) Complete(_ *models.Question, a *models.AnswerRecord) error {
	if a == nil || a.Choice == nil || len(a.Choice.Selected) == 0 {
		return fmt.Errorf("select at least one option")
	}
	return nil
}

func (choiceStrategy) Grade(q *models.Question, a *models.AnswerRecord) Verdict {
	correct := q.CorrectChoiceSet()

	var selected []int
	if a != nil && a.Choice != nil {
		selected = a.Choice.Selected
	}

	// Exact set equality: a superset of the correct options is wrong.
	matched := 0
	allIn := true
	seen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		if correct[idx] {
			matched++
		} else {
			allIn = false
		}
	}

	v := Verdict{Correct: len(selected) > 0 && allIn && matched == len(correct)}
	for i, opt := range q.Options {
		v.Items = append(v.Items, models.ItemReview{
			Index:    i,
			Correct:  opt.IsCorrect,
			Selected: seen[i],
			Expected: opt.Text,
		})
	}
	return v
}

type fillBlankStrategy struct{}

func (fillBlankStrategy) Complete(q *models.Question, a *models.AnswerRecord) error {
	if a == nil || a.Text == nil {
		return fmt.Errorf("fill in every blank")
	}
	if len(a.Text.Entries) != len(q.Options) {
		return fmt.Errorf("fill in every blank")
	}
	for i, entry := range a.Text.Entries {
		if strings.TrimSpace(entry) == "" {
			return fmt.Errorf("blank %d is empty", i+1)
		}
	}
	return nil
}

func (fillBlankStrategy) Grade(q *models.Question, a *models.AnswerRecord) Verdict {
	v := Verdict{Correct: true}
	for i, opt := range q.Options {
		got := ""
		if a != nil && a.Text != nil && i < len(a.Text.Entries) {
			got = a.Text.Entries[i]
		}
		ok := normalize(got) == normalize(opt.Text)
		if !ok {
			v.Correct = false
		}
		v.Items = append(v.Items, models.ItemReview{
			Index:    i,
			Correct:  ok,
			Got:      got,
			Expected: opt.Text,
		})
	}
	return v
}

type rankingStrategy struct{}

func (rankingStrategy) Complete(q *models.Question, a *models.AnswerRecord) error {
	// Ranking answers are seeded with a full permutation at first visit,
	// so an absent or short order means the question was never visited.
	if a == nil || a.Ranking == nil || len(a.Ranking.Order) != len(q.Options) {
		return fmt.Errorf("ranking order is incomplete")
	}
	seen := make(map[int]bool, len(a.Ranking.Order))
	for _, idx := range a.Ranking.Order {
		if idx < 0 || idx >= len(q.Options) || seen[idx] {
			return fmt.Errorf("ranking order is not a permutation")
		}
		seen[idx] = true
	}
	return nil
}

func (rankingStrategy) Grade(q *models.Question, a *models.AnswerRecord) Verdict {
	canonical := q.CanonicalRankOrder()

	var order []int
	if a != nil && a.Ranking != nil {
		order = a.Ranking.Order
	}

	// Every item must sit in its exact rank; relative order is not enough.
	v := Verdict{Correct: len(order) == len(canonical)}
	for pos, want := range canonical {
		got := -1
		if pos < len(order) {
			got = order[pos]
		}
		ok := got == want
		if !ok {
			v.Correct = false
		}
		item := models.ItemReview{Index: pos, Correct: ok, Expected: q.Options[want].Text}
		if got >= 0 && got < len(q.Options) {
			item.Got = q.Options[got].Text
		}
		v.Items = append(v.Items, item)
	}
	return v
}

type matchingStrategy struct{}

func (matchingStrategy) Complete(q *models.Question, a *models.AnswerRecord) error {
	if a == nil || a.Matching == nil {
		return fmt.Errorf("match every symbol")
	}
	for _, opt := range q.Options {
		if _, ok := a.Matching.Matches[opt.Symbol]; !ok {
			return fmt.Errorf("symbol %q is unmatched", opt.Symbol)
		}
	}
	return nil
}

func (matchingStrategy) Grade(q *models.Question, a *models.AnswerRecord) Verdict {
	v := Verdict{Correct: true}
	for i, opt := range q.Options {
		chosen, matched := -1, false
		if a != nil && a.Matching != nil {
			if c, ok := a.Matching.Matches[opt.Symbol]; ok {
				chosen, matched = c, true
			}
		}
		// Ground truth is the identity permutation: pair i matches its own
		// description. Unmatched or mismatched fails the whole question.
		ok := matched && chosen == i
		if !ok {
			v.Correct = false
		}
		item := models.ItemReview{Index: i, Correct: ok, Expected: opt.Description}
		if matched && chosen >= 0 && chosen < len(q.Options) {
			item.Got = q.Options[chosen].Description
		}
		v.Items = append(v.Items, item)
	}
	return v
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
