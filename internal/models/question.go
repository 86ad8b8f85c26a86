package models

// QuestionType discriminates the closed set of question variants. Any code
// that switches on it must handle every constant; the scorer and the session
// controller both fail loudly on an unknown type instead of skipping it.
type QuestionType string

const (
	// Choice covers both single- and multi-select questions; the two are
	// distinguished by Question.MultiSelect.
	Choice         QuestionType = "multiple_choice"
	FillInTheBlank QuestionType = "fill_in_the_blank"
	Ranking        QuestionType = "ranking"
	Matching       QuestionType = "matching"
)

// AllQuestionTypes lists every valid type for validation messages.
var AllQuestionTypes = []QuestionType{Choice, FillInTheBlank, Ranking, Matching}

// Option is one entry in a question's option list. Which fields are
// meaningful depends on the question type:
//
//   - multiple_choice: Text + IsCorrect
//   - fill_in_the_blank: Text is the expected answer for that blank position
//   - ranking: Text + Rank (1..N, unique, contiguous)
//   - matching: Symbol + Description; the correct match for option i is its
//     own description, so ground truth is the identity permutation
type Option struct {
	Text        string `json:"text,omitempty"`
	IsCorrect   bool   `json:"isCorrect,omitempty"`
	Rank        int    `json:"rank,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Description string `json:"description,omitempty"`
}

// Question is a single quiz question as loaded from the bank. The JSON shape
// matches the bank file format produced by the quiz-bank converter.
type Question struct {
	ID          string       `json:"id" validate:"required"`
	Type        QuestionType `json:"type" validate:"required,question_type"`
	Prompt      string       `json:"question" validate:"required"`
	Options     []Option     `json:"options" validate:"required,min=1"`
	Explanation string       `json:"explanation,omitempty"`
	ImageRef    string       `json:"image,omitempty"`
	MultiSelect bool         `json:"multiSelect,omitempty"`
}

// CorrectChoiceSet returns the set of option indices marked correct.
// Only meaningful for choice questions.
func (q *Question) CorrectChoiceSet() map[int]bool {
	set := make(map[int]bool)
	for i, opt := range q.Options {
		if opt.IsCorrect {
			set[i] = true
		}
	}
	return set
}

// CanonicalRankOrder returns option indices sorted by their Rank ascending,
// i.e. the one order a ranking answer must reproduce exactly. Assumes the
// rank set was validated as a contiguous 1..N permutation at load time.
func (q *Question) CanonicalRankOrder() []int {
	order := make([]int, len(q.Options))
	for i, opt := range q.Options {
		order[opt.Rank-1] = i
	}
	return order
}

// Topic is one named group of questions from the bank. Immutable input.
type Topic struct {
	Name      string     `json:"topic" validate:"required"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
}
