package models

// AnswerRecord holds a user's current answer to one question. Exactly one of
// the variant fields is populated, matching the question's type. Indices
// always refer to positions in the question's original option array, never
// to shuffled display positions.
type AnswerRecord struct {
	Type     QuestionType    `json:"type"`
	Choice   *ChoiceAnswer   `json:"choice,omitempty"`
	Text     *TextAnswer     `json:"text,omitempty"`
	Ranking  *RankingAnswer  `json:"ranking,omitempty"`
	Matching *MatchingAnswer `json:"matching,omitempty"`
}

// ChoiceAnswer is the selected option-index set for single/multi choice.
// Order of Selected carries no meaning.
type ChoiceAnswer struct {
	Selected []int `json:"selected"`
}

// Contains reports whether idx is currently selected.
func (a *ChoiceAnswer) Contains(idx int) bool {
	for _, s := range a.Selected {
		if s == idx {
			return true
		}
	}
	return false
}

// TextAnswer holds one entry per blank, positionally aligned to the
// question's blank sequence.
type TextAnswer struct {
	Entries []string `json:"entries"`
}

// RankingAnswer is a permutation of option indices; position 0 is rank 1.
// It is initialized to a full shuffled permutation at first visit, so a
// ranking answer is always complete.
type RankingAnswer struct {
	Order []int `json:"order"`
}

// MatchingAnswer maps a pair's symbol to the chosen description index
// (an index into the question's original option array). The session
// controller keeps the mapping injective: assigning a description that is
// already taken releases it from the previous symbol.
type MatchingAnswer struct {
	Matches map[string]int `json:"matches"`
}
