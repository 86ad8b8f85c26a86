package models

import (
	"fmt"
	"time"
)

type SessionPhase string

const (
	PhaseInProgress SessionPhase = "in_progress"
	PhaseComplete   SessionPhase = "complete"
)

// GradeBand buckets a final percentage for display. Thresholds are a
// product rule: 80 and above is the top band, 50 and above the middle.
type GradeBand string

const (
	BandTop    GradeBand = "top"
	BandMiddle GradeBand = "middle"
	BandBottom GradeBand = "bottom"
)

// BandFor returns the grade band for a rounded percentage.
func BandFor(percentage int) GradeBand {
	switch {
	case percentage >= 80:
		return BandTop
	case percentage >= 50:
		return BandMiddle
	default:
		return BandBottom
	}
}

// BandMessage is the encouragement line shown next to the mascot for each
// band, carried over from the original app.
func BandMessage(band GradeBand) string {
	switch band {
	case BandTop:
		return "Wow! Perfect score!"
	case BandMiddle:
		return "Great job! Keep it up!"
	default:
		return "Don't worry, practice makes perfect!"
	}
}

// QuestionView is the per-question slice of a session snapshot: the question
// itself plus the presentation state the UI needs to render it. DisplayOrder
// and DescriptionOrder are stable for the question's lifetime; answers are
// keyed by original indices so the shuffle never affects correctness.
type QuestionView struct {
	Question Question `json:"question"`
	// DisplayOrder lists original option indices in presentation order.
	DisplayOrder []int `json:"display_order"`
	// DescriptionOrder lists original description indices in presentation
	// order; only set for matching questions.
	DescriptionOrder []int        `json:"description_order,omitempty"`
	Answer           AnswerRecord `json:"answer"`
	Checked          bool         `json:"checked"`
	// Verdict is only meaningful when Checked is true.
	Verdict bool `json:"verdict"`
}

// Snapshot is the read-only view of a session handed to the presentation
// layer. It is a copy; mutating it has no effect on the session.
type Snapshot struct {
	SessionID      string       `json:"session_id"`
	TopicName      string       `json:"topic_name"`
	Phase          SessionPhase `json:"phase"`
	CurrentIndex   int          `json:"current_index"`
	TotalQuestions int          `json:"total_questions"`
	Current        QuestionView `json:"current"`
	ElapsedSeconds int          `json:"elapsed_seconds"`
	ElapsedDisplay string       `json:"elapsed_display"`
}

// Result is the terminal outcome of a session, recomputable at any time
// from the working set and the answer store.
type Result struct {
	SessionID      string           `json:"session_id"`
	TopicName      string           `json:"topic_name"`
	Score          int              `json:"score"`
	Total          int              `json:"total"`
	Percentage     int              `json:"percentage"`
	Band           GradeBand        `json:"band"`
	BandMessage    string           `json:"band_message"`
	ElapsedSeconds int              `json:"elapsed_seconds"`
	ElapsedDisplay string           `json:"elapsed_display"`
	Questions      []QuestionReview `json:"questions"`
}

// QuestionReview pairs one question with the user's final answer, the
// verdict, and the per-item diagnostics the review screen renders.
type QuestionReview struct {
	Question Question     `json:"question"`
	Answer   AnswerRecord `json:"answer"`
	Correct  bool         `json:"correct"`
	Items    []ItemReview `json:"items,omitempty"`
}

// ItemReview is one row of a review breakdown. Its meaning depends on the
// question type: per-option for choice, per-blank for fill-in, per-position
// for ranking, per-pair for matching.
type ItemReview struct {
	Index    int    `json:"index"`
	Correct  bool   `json:"correct"`
	Got      string `json:"got,omitempty"`
	Expected string `json:"expected,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

// FormatClock renders seconds as MM:SS for the in-quiz timer display.
func FormatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds as "XmYs" for the results screen.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// ElapsedSince computes whole elapsed seconds from a start timestamp.
func ElapsedSince(start, now time.Time) int {
	s := int(now.Sub(start).Seconds())
	if s < 0 {
		return 0
	}
	return s
}
