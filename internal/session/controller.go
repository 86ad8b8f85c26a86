// Package session implements the quiz session controller: working-set
// construction, the per-question answer store, the unanswered/checked state
// machine, navigation, and the elapsed-time ticker. One Controller owns one
// attempt; abandoning or finishing a session and playing again means
// constructing a fresh Controller.
package session

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/quizcraft/quiz-session-service/internal/models"
	"github.com/quizcraft/quiz-session-service/internal/scorer"
)

// Config carries everything a session needs at construction time. Rand is
// required so tests and replay runs can seed the shuffles deterministically.
type Config struct {
	SessionID string
	TopicName string
	Questions []models.Question
	// Shuffle randomizes the working-set order once at start. Used by
	// all-topics mode; single-topic sessions keep the bank order.
	Shuffle bool
	Rand    *rand.Rand
	Grader  *scorer.Grader
	// Clock defaults to time.Now.
	Clock func() time.Time
	// TickInterval defaults to one second.
	TickInterval time.Duration
	// OnTick, if set, observes the elapsed-seconds counter on every tick.
	// It never influences state.
	OnTick func(elapsedSeconds int)
}

// Controller drives one quiz attempt. All exported methods are safe for
// concurrent use; the state machine still processes one intent at a time.
type Controller struct {
	mu sync.Mutex

	id        string
	topicName string

	workingSet []models.Question
	positions  map[string]int

	answers           map[string]models.AnswerRecord
	displayOrders     map[string][]int
	descriptionOrders map[string][]int
	checked           map[string]bool

	current int
	phase   models.SessionPhase

	rng    *rand.Rand
	grader *scorer.Grader
	clock  func() time.Time

	startedAt    time.Time
	finalElapsed int

	ticker   *time.Ticker
	tickDone chan struct{}
	stopOnce sync.Once
	onTick   func(int)
}

// New builds the working set, seeds the first question's presentation
// state, and starts the elapsed-time ticker. A topic with zero questions or
// a duplicate question id is a configuration error: the session never
// starts half-broken.
func New(cfg Config) (*Controller, error) {
	if len(cfg.Questions) == 0 {
		return nil, ErrEmptyWorkingSet
	}

	ws := make([]models.Question, len(cfg.Questions))
	copy(ws, cfg.Questions)
	if cfg.Shuffle {
		cfg.Rand.Shuffle(len(ws), func(i, j int) { ws[i], ws[j] = ws[j], ws[i] })
	}

	positions := make(map[string]int, len(ws))
	for i, q := range ws {
		if _, dup := positions[q.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateQuestion, q.ID)
		}
		positions[q.ID] = i
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	c := &Controller{
		id:                cfg.SessionID,
		topicName:         cfg.TopicName,
		workingSet:        ws,
		positions:         positions,
		answers:           make(map[string]models.AnswerRecord, len(ws)),
		displayOrders:     make(map[string][]int, len(ws)),
		descriptionOrders: make(map[string][]int),
		checked:           make(map[string]bool, len(ws)),
		phase:             models.PhaseInProgress,
		rng:               cfg.Rand,
		grader:            cfg.Grader,
		clock:             clock,
		onTick:            cfg.OnTick,
	}
	c.startedAt = clock()

	if err := c.visit(0); err != nil {
		return nil, err
	}

	c.ticker = time.NewTicker(interval)
	c.tickDone = make(chan struct{})
	go c.tickLoop()

	return c, nil
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// visit seeds the presentation state and answer record for the question at
// index i on its first visit. Display orders and the ranking permutation
// are generated once and never regenerated; answers are keyed by original
// option indices so the shuffles cannot perturb correctness.
func (c *Controller) visit(i int) error {
	q := &c.workingSet[i]
	if _, seeded := c.answers[q.ID]; seeded {
		return nil
	}

	rec := models.AnswerRecord{Type: q.Type}
	switch q.Type {
	case models.Choice:
		rec.Choice = &models.ChoiceAnswer{}
		c.displayOrders[q.ID] = c.shuffledRange(len(q.Options))
	case models.FillInTheBlank:
		rec.Text = &models.TextAnswer{Entries: make([]string, len(q.Options))}
		c.displayOrders[q.ID] = identityRange(len(q.Options))
	case models.Ranking:
		// The initial shuffled permutation doubles as the current answer.
		rec.Ranking = &models.RankingAnswer{Order: c.shuffledRange(len(q.Options))}
		c.displayOrders[q.ID] = identityRange(len(q.Options))
	case models.Matching:
		rec.Matching = &models.MatchingAnswer{Matches: make(map[string]int, len(q.Options))}
		c.displayOrders[q.ID] = identityRange(len(q.Options))
		c.descriptionOrders[q.ID] = c.shuffledRange(len(q.Options))
	default:
		return fmt.Errorf("question %q has unsupported type %s", q.ID, q.Type)
	}

	c.answers[q.ID] = rec
	return nil
}

func (c *Controller) shuffledRange(n int) []int {
	out := identityRange(n)
	c.rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func identityRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// RecordAnswer applies one answer mutation to the identified question.
// Rejected once the question is checked; only the current question accepts
// mutations, since navigation is strictly sequential.
func (c *Controller) RecordAnswer(questionID string, m Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == models.PhaseComplete {
		return ErrSessionComplete
	}
	pos, ok := c.positions[questionID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if c.checked[questionID] {
		return ErrQuestionChecked
	}
	if pos != c.current {
		return fmt.Errorf("%w: %q", ErrNotCurrentQuestion, questionID)
	}

	q := &c.workingSet[pos]
	rec := c.answers[questionID]
	if err := applyMutation(q, &rec, m); err != nil {
		return err
	}
	c.answers[questionID] = rec
	return nil
}

// CheckAnswer validates completeness of the current question's answer,
// computes its verdict, and freezes further mutation. An incomplete answer
// is rejected and the question stays unanswered.
func (c *Controller) CheckAnswer() (scorer.Verdict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == models.PhaseComplete {
		return scorer.Verdict{}, ErrSessionComplete
	}
	q := &c.workingSet[c.current]
	if c.checked[q.ID] {
		return scorer.Verdict{}, ErrQuestionChecked
	}

	rec := c.answers[q.ID]
	if err := c.grader.Complete(q, &rec); err != nil {
		return scorer.Verdict{}, fmt.Errorf("%w: %v", ErrAnswerIncomplete, err)
	}

	verdict, err := c.grader.Grade(q, &rec)
	if err != nil {
		return scorer.Verdict{}, err
	}
	c.checked[q.ID] = true
	return verdict, nil
}

// Advance moves to the next question, or completes the session when the
// current question is the last. Only legal from the checked state; skipping
// ahead without checking is a product rule, not an incidental restriction.
// Returns true when the session just completed.
func (c *Controller) Advance() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == models.PhaseComplete {
		return false, ErrSessionComplete
	}
	if !c.checked[c.workingSet[c.current].ID] {
		return false, ErrAdvanceBeforeCheck
	}

	if c.current == len(c.workingSet)-1 {
		c.phase = models.PhaseComplete
		c.finalElapsed = models.ElapsedSince(c.startedAt, c.clock())
		c.stopTicker()
		return true, nil
	}

	c.current++
	return false, c.visit(c.current)
}

// GoBack moves to the previous question for review; a no-op at index 0.
// The landed question is always in the checked display state, since forward
// progress requires a check, and stays frozen.
func (c *Controller) GoBack() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == models.PhaseComplete {
		return ErrSessionComplete
	}
	if c.current > 0 {
		c.current--
	}
	return nil
}

// Snapshot returns a read-only copy of the state the presentation layer
// renders. The checked question's verdict is recomputed from the recorded
// answer on every call, never cached.
func (c *Controller) Snapshot() (models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := c.workingSet[c.current]
	view := models.QuestionView{
		Question:         q,
		DisplayOrder:     append([]int(nil), c.displayOrders[q.ID]...),
		DescriptionOrder: append([]int(nil), c.descriptionOrders[q.ID]...),
		Answer:           c.answers[q.ID],
		Checked:          c.checked[q.ID],
	}
	if view.Checked {
		rec := c.answers[q.ID]
		verdict, err := c.grader.Grade(&q, &rec)
		if err != nil {
			return models.Snapshot{}, err
		}
		view.Verdict = verdict.Correct
	}

	elapsed := c.elapsedLocked()
	return models.Snapshot{
		SessionID:      c.id,
		TopicName:      c.topicName,
		Phase:          c.phase,
		CurrentIndex:   c.current,
		TotalQuestions: len(c.workingSet),
		Current:        view,
		ElapsedSeconds: elapsed,
		ElapsedDisplay: models.FormatClock(elapsed),
	}, nil
}

// Result recomputes the final score from the working set and the answer
// store. Valid only once the session is complete; repeated calls return
// identical results and never mutate state.
func (c *Controller) Result() (models.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != models.PhaseComplete {
		return models.Result{}, ErrSessionNotComplete
	}

	score := 0
	reviews := make([]models.QuestionReview, 0, len(c.workingSet))
	for i := range c.workingSet {
		q := &c.workingSet[i]
		rec := c.answers[q.ID]
		verdict, err := c.grader.Grade(q, &rec)
		if err != nil {
			return models.Result{}, err
		}
		if verdict.Correct {
			score++
		}
		reviews = append(reviews, models.QuestionReview{
			Question: *q,
			Answer:   rec,
			Correct:  verdict.Correct,
			Items:    verdict.Items,
		})
	}

	total := len(c.workingSet)
	pct := scorer.Percentage(score, total)
	band := models.BandFor(pct)
	return models.Result{
		SessionID:      c.id,
		TopicName:      c.topicName,
		Score:          score,
		Total:          total,
		Percentage:     pct,
		Band:           band,
		BandMessage:    models.BandMessage(band),
		ElapsedSeconds: c.finalElapsed,
		ElapsedDisplay: models.FormatDuration(c.finalElapsed),
		Questions:      reviews,
	}, nil
}

// Phase reports the session phase.
func (c *Controller) Phase() models.SessionPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Elapsed reports whole elapsed seconds: live while in progress, frozen at
// the value captured when the session completed.
func (c *Controller) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

func (c *Controller) elapsedLocked() int {
	if c.phase == models.PhaseComplete {
		return c.finalElapsed
	}
	return models.ElapsedSince(c.startedAt, c.clock())
}

// Stop releases the ticker. Safe to call more than once and on every exit
// path, including abandonment.
func (c *Controller) Stop() {
	c.stopTicker()
}

func (c *Controller) stopTicker() {
	c.stopOnce.Do(func() {
		c.ticker.Stop()
		close(c.tickDone)
	})
}

// tickLoop recomputes elapsed time once per interval. Ticks are purely
// observational: they can be coalesced or dropped without affecting the
// recorded final time, which is captured once at completion.
func (c *Controller) tickLoop() {
	for {
		select {
		case <-c.tickDone:
			return
		case <-c.ticker.C:
			elapsed := c.Elapsed()
			if c.onTick != nil {
				c.onTick(elapsed)
			}
		}
	}
}
