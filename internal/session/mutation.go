package session

import (
	"fmt"

	"github.com/quizcraft/quiz-session-service/internal/models"
)

// MutationKind names the answer-mutation intents a user can dispatch.
type MutationKind string

const (
	// MutationSelectOption selects a choice option. Single-select replaces
	// the selection; multi-select toggles membership.
	MutationSelectOption MutationKind = "select_option"
	// MutationSetBlank sets the text of one blank.
	MutationSetBlank MutationKind = "set_blank"
	// MutationMoveRank moves the item at one position of the current order
	// to another position.
	MutationMoveRank MutationKind = "move_rank"
	// MutationMatchSymbol assigns a description to a symbol. A description
	// already assigned elsewhere is released from its previous symbol.
	MutationMatchSymbol MutationKind = "match_symbol"
)

// Mutation is one type-specific answer edit. All indices refer to the
// question's original option array except From/To, which address positions
// in the user's current ranking order.
type Mutation struct {
	Kind             MutationKind `json:"kind" validate:"required,oneof=select_option set_blank move_rank match_symbol"`
	OptionIndex      int          `json:"option_index"`
	BlankIndex       int          `json:"blank_index"`
	Text             string       `json:"text"`
	From             int          `json:"from"`
	To               int          `json:"to"`
	Symbol           string       `json:"symbol"`
	DescriptionIndex int          `json:"description_index"`
}

// applyMutation edits the answer record in place. The caller has already
// verified the question is current and not yet checked.
func applyMutation(q *models.Question, a *models.AnswerRecord, m Mutation) error {
	switch m.Kind {
	case MutationSelectOption:
		if q.Type != models.Choice {
			return ErrMutationMismatch
		}
		if m.OptionIndex < 0 || m.OptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: option %d", ErrIndexOutOfRange, m.OptionIndex)
		}
		if !q.MultiSelect {
			a.Choice.Selected = []int{m.OptionIndex}
			return nil
		}
		if a.Choice.Contains(m.OptionIndex) {
			kept := a.Choice.Selected[:0]
			for _, idx := range a.Choice.Selected {
				if idx != m.OptionIndex {
					kept = append(kept, idx)
				}
			}
			a.Choice.Selected = kept
		} else {
			a.Choice.Selected = append(a.Choice.Selected, m.OptionIndex)
		}
		return nil

	case MutationSetBlank:
		if q.Type != models.FillInTheBlank {
			return ErrMutationMismatch
		}
		if m.BlankIndex < 0 || m.BlankIndex >= len(a.Text.Entries) {
			return fmt.Errorf("%w: blank %d", ErrIndexOutOfRange, m.BlankIndex)
		}
		a.Text.Entries[m.BlankIndex] = m.Text
		return nil

	case MutationMoveRank:
		if q.Type != models.Ranking {
			return ErrMutationMismatch
		}
		order := a.Ranking.Order
		if m.From < 0 || m.From >= len(order) || m.To < 0 || m.To >= len(order) {
			return fmt.Errorf("%w: move %d to %d", ErrIndexOutOfRange, m.From, m.To)
		}
		moved := order[m.From]
		order = append(order[:m.From], order[m.From+1:]...)
		order = append(order[:m.To], append([]int{moved}, order[m.To:]...)...)
		a.Ranking.Order = order
		return nil

	case MutationMatchSymbol:
		if q.Type != models.Matching {
			return ErrMutationMismatch
		}
		known := false
		for _, opt := range q.Options {
			if opt.Symbol == m.Symbol {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: symbol %q", ErrIndexOutOfRange, m.Symbol)
		}
		if m.DescriptionIndex < 0 || m.DescriptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: description %d", ErrIndexOutOfRange, m.DescriptionIndex)
		}
		// At most one symbol per description: taking a description releases
		// it from whichever symbol held it.
		for sym, idx := range a.Matching.Matches {
			if idx == m.DescriptionIndex && sym != m.Symbol {
				delete(a.Matching.Matches, sym)
			}
		}
		a.Matching.Matches[m.Symbol] = m.DescriptionIndex
		return nil

	default:
		return fmt.Errorf("%w: unknown mutation kind %q", ErrMutationMismatch, m.Kind)
	}
}
