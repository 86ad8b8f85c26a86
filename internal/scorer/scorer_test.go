package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcraft/quiz-session-service/internal/models"
)

func choiceAnswer(selected ...int) models.AnswerRecord {
	return models.AnswerRecord{Type: models.Choice, Choice: &models.ChoiceAnswer{Selected: selected}}
}

func TestGrader_Choice(t *testing.T) {
	g := New()

	singleChoice := models.Question{
		ID: "sc1", Type: models.Choice, Prompt: "Which one?",
		Options: []models.Option{
			{Text: "A"},
			{Text: "B", IsCorrect: true},
			{Text: "C"},
		},
	}
	multiChoice := models.Question{
		ID: "mc1", Type: models.Choice, Prompt: "Which ones?", MultiSelect: true,
		Options: []models.Option{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
			{Text: "C", IsCorrect: true},
		},
	}

	tests := []struct {
		name     string
		question *models.Question
		answer   models.AnswerRecord
		correct  bool
	}{
		{"single choice correct option", &singleChoice, choiceAnswer(1), true},
		{"single choice wrong option", &singleChoice, choiceAnswer(0), false},
		{"multi exact set", &multiChoice, choiceAnswer(0, 2), true},
		{"multi order irrelevant", &multiChoice, choiceAnswer(2, 0), true},
		{"multi superset is not equal", &multiChoice, choiceAnswer(0, 1, 2), false},
		{"multi subset fails", &multiChoice, choiceAnswer(0), false},
		{"empty selection incorrect", &multiChoice, choiceAnswer(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := g.Grade(tt.question, &tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, v.Correct)
		})
	}

	t.Run("diagnostics mark correct and selected options", func(t *testing.T) {
		a := choiceAnswer(0, 1)
		v, err := g.Grade(&multiChoice, &a)
		require.NoError(t, err)
		require.Len(t, v.Items, 3)
		assert.True(t, v.Items[0].Correct)
		assert.True(t, v.Items[0].Selected)
		assert.False(t, v.Items[1].Correct)
		assert.True(t, v.Items[1].Selected)
		assert.True(t, v.Items[2].Correct)
		assert.False(t, v.Items[2].Selected)
	})
}

// Scoring must not depend on presentation order: answers are recorded
// against original option indices, so the same underlying selection grades
// the same no matter how the options were displayed.
func TestGrader_ChoiceShuffleInvariance(t *testing.T) {
	g := New()
	q := models.Question{
		ID: "mc2", Type: models.Choice, Prompt: "Pick all that apply", MultiSelect: true,
		Options: []models.Option{
			{Text: "A", IsCorrect: true},
			{Text: "B"},
			{Text: "C", IsCorrect: true},
			{Text: "D"},
		},
	}

	// Index order within the selection is presentation-dependent; every
	// ordering of the same underlying set must grade identically.
	orderings := [][]int{{0, 2}, {2, 0}}
	for _, sel := range orderings {
		a := choiceAnswer(sel...)
		v, err := g.Grade(&q, &a)
		require.NoError(t, err)
		assert.True(t, v.Correct)
	}
}

func TestGrader_FillInTheBlank(t *testing.T) {
	g := New()
	q := models.Question{
		ID: "fb1", Type: models.FillInTheBlank, Prompt: "Name the two signal kinds",
		Options: []models.Option{
			{Text: "reset"},
			{Text: "interrupt"},
		},
	}

	tests := []struct {
		name    string
		entries []string
		correct bool
	}{
		{"trim and case fold", []string{"Reset ", "interrupt"}, true},
		{"exact match", []string{"reset", "interrupt"}, true},
		{"one blank wrong fails all", []string{"reset", "poll"}, false},
		{"swapped positions fail", []string{"interrupt", "reset"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.AnswerRecord{Type: models.FillInTheBlank, Text: &models.TextAnswer{Entries: tt.entries}}
			v, err := g.Grade(&q, &a)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, v.Correct)
		})
	}

	t.Run("per-blank diagnostics", func(t *testing.T) {
		a := models.AnswerRecord{Type: models.FillInTheBlank, Text: &models.TextAnswer{Entries: []string{"reset", "poll"}}}
		v, err := g.Grade(&q, &a)
		require.NoError(t, err)
		require.Len(t, v.Items, 2)
		assert.True(t, v.Items[0].Correct)
		assert.False(t, v.Items[1].Correct)
		assert.Equal(t, "poll", v.Items[1].Got)
		assert.Equal(t, "interrupt", v.Items[1].Expected)
	})
}

func TestGrader_Ranking(t *testing.T) {
	g := New()
	// Option 0 has correctRank 2, option 1 rank 1, option 2 rank 4,
	// option 3 rank 3: the canonical order by rank is [1 0 3 2].
	q := models.Question{
		ID: "rk1", Type: models.Ranking, Prompt: "Sort the steps",
		Options: []models.Option{
			{Text: "step B", Rank: 2},
			{Text: "step A", Rank: 1},
			{Text: "step D", Rank: 4},
			{Text: "step C", Rank: 3},
		},
	}

	assert.Equal(t, []int{1, 0, 3, 2}, q.CanonicalRankOrder())

	tests := []struct {
		name    string
		order   []int
		correct bool
	}{
		{"canonical order correct", []int{1, 0, 3, 2}, true},
		{"single transposition fails", []int{0, 1, 3, 2}, false},
		{"reverse fails", []int{2, 3, 0, 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := models.AnswerRecord{Type: models.Ranking, Ranking: &models.RankingAnswer{Order: tt.order}}
			v, err := g.Grade(&q, &a)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, v.Correct)
		})
	}

	t.Run("every transposition of the correct order fails", func(t *testing.T) {
		canonical := []int{1, 0, 3, 2}
		for i := 0; i < len(canonical); i++ {
			for j := i + 1; j < len(canonical); j++ {
				order := append([]int(nil), canonical...)
				order[i], order[j] = order[j], order[i]
				a := models.AnswerRecord{Type: models.Ranking, Ranking: &models.RankingAnswer{Order: order}}
				v, err := g.Grade(&q, &a)
				require.NoError(t, err)
				assert.False(t, v.Correct, "transposition %d<->%d should fail", i, j)
			}
		}
	})
}

func TestGrader_Matching(t *testing.T) {
	g := New()
	q := models.Question{
		ID: "mt1", Type: models.Matching, Prompt: "Match operator to meaning",
		Options: []models.Option{
			{Symbol: "&", Description: "Bitwise AND"},
			{Symbol: "|", Description: "Bitwise OR"},
			{Symbol: "^", Description: "Bitwise XOR"},
		},
	}

	t.Run("identity mapping correct", func(t *testing.T) {
		a := models.AnswerRecord{Type: models.Matching, Matching: &models.MatchingAnswer{
			Matches: map[string]int{"&": 0, "|": 1, "^": 2},
		}}
		v, err := g.Grade(&q, &a)
		require.NoError(t, err)
		assert.True(t, v.Correct)
	})

	t.Run("one swap makes two pairs wrong", func(t *testing.T) {
		a := models.AnswerRecord{Type: models.Matching, Matching: &models.MatchingAnswer{
			Matches: map[string]int{"&": 1, "|": 0, "^": 2},
		}}
		v, err := g.Grade(&q, &a)
		require.NoError(t, err)
		assert.False(t, v.Correct)
		require.Len(t, v.Items, 3)
		assert.False(t, v.Items[0].Correct)
		assert.False(t, v.Items[1].Correct)
		assert.True(t, v.Items[2].Correct)
	})

	t.Run("unmatched pair fails the question", func(t *testing.T) {
		a := models.AnswerRecord{Type: models.Matching, Matching: &models.MatchingAnswer{
			Matches: map[string]int{"&": 0, "|": 1},
		}}
		v, err := g.Grade(&q, &a)
		require.NoError(t, err)
		assert.False(t, v.Correct)
	})
}

func TestGrader_Complete(t *testing.T) {
	g := New()

	choice := models.Question{
		ID: "c1", Type: models.Choice, Prompt: "Pick", MultiSelect: true,
		Options: []models.Option{{Text: "A", IsCorrect: true}, {Text: "B"}},
	}
	fill := models.Question{
		ID: "f1", Type: models.FillInTheBlank, Prompt: "Fill",
		Options: []models.Option{{Text: "reset"}, {Text: "interrupt"}},
	}
	matching := models.Question{
		ID: "m1", Type: models.Matching, Prompt: "Match",
		Options: []models.Option{{Symbol: "&", Description: "AND"}, {Symbol: "|", Description: "OR"}},
	}

	t.Run("empty choice selection rejected", func(t *testing.T) {
		a := choiceAnswer()
		assert.Error(t, g.Complete(&choice, &a))
	})

	t.Run("missing answer rejected", func(t *testing.T) {
		a := models.AnswerRecord{}
		assert.Error(t, g.Complete(&choice, &a))
	})

	t.Run("whitespace-only blank rejected", func(t *testing.T) {
		a := models.AnswerRecord{Type: models.FillInTheBlank, Text: &models.TextAnswer{Entries: []string{"reset", "   "}}}
		assert.ErrorContains(t, g.Complete(&fill, &a), "blank 2")
	})

	t.Run("partially matched rejected", func(t *testing.T) {
		a := models.AnswerRecord{Type: models.Matching, Matching: &models.MatchingAnswer{Matches: map[string]int{"&": 0}}}
		assert.ErrorContains(t, g.Complete(&matching, &a), `"|"`)
	})

	t.Run("complete answers accepted", func(t *testing.T) {
		a := choiceAnswer(0)
		assert.NoError(t, g.Complete(&choice, &a))

		f := models.AnswerRecord{Type: models.FillInTheBlank, Text: &models.TextAnswer{Entries: []string{"reset", "interrupt"}}}
		assert.NoError(t, g.Complete(&fill, &f))

		m := models.AnswerRecord{Type: models.Matching, Matching: &models.MatchingAnswer{Matches: map[string]int{"&": 1, "|": 0}}}
		assert.NoError(t, g.Complete(&matching, &m))
	})
}

func TestGrader_ScoreSession(t *testing.T) {
	g := New()
	questions := []models.Question{
		{
			ID: "q1", Type: models.Choice, Prompt: "Pick",
			Options: []models.Option{{Text: "A"}, {Text: "B", IsCorrect: true}},
		},
		{
			ID: "q2", Type: models.FillInTheBlank, Prompt: "Fill",
			Options: []models.Option{{Text: "reset"}},
		},
	}

	t.Run("all correct scores total", func(t *testing.T) {
		answers := map[string]models.AnswerRecord{
			"q1": choiceAnswer(1),
			"q2": {Type: models.FillInTheBlank, Text: &models.TextAnswer{Entries: []string{"Reset"}}},
		}
		score, err := g.ScoreSession(questions, answers)
		require.NoError(t, err)
		assert.Equal(t, 2, score)
		assert.Equal(t, 100, Percentage(score, len(questions)))
	})

	t.Run("unanswered questions score zero", func(t *testing.T) {
		score, err := g.ScoreSession(questions, map[string]models.AnswerRecord{})
		require.NoError(t, err)
		assert.Equal(t, 0, score)
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		bad := []models.Question{{ID: "x", Type: "essay", Prompt: "?"}}
		_, err := g.ScoreSession(bad, nil)
		assert.Error(t, err)
	})
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 100, Percentage(10, 10))
	assert.Equal(t, 0, Percentage(0, 10))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 0, Percentage(0, 0))
}
