// Package bank loads and validates the question bank consumed at startup.
// The bank is read-only input: topics and questions are validated once here
// so that session construction can assume well-formed data.
package bank

import (
	"fmt"

	"github.com/quizcraft/quiz-session-service/internal/models"
)

// AllTopicsName is the reserved name of the synthetic topic whose working
// set concatenates every topic's questions.
const AllTopicsName = "All Topics"

// Bank is the validated, immutable question bank.
type Bank struct {
	topics []models.Topic
}

// TopicSummary is the card-level view of a topic.
type TopicSummary struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// Topics returns the topics in bank order.
func (b *Bank) Topics() []models.Topic {
	return b.topics
}

// Summaries lists topic names and question counts, with the all-topics
// pseudo entry appended last.
func (b *Bank) Summaries() []TopicSummary {
	out := make([]TopicSummary, 0, len(b.topics)+1)
	total := 0
	for _, t := range b.topics {
		out = append(out, TopicSummary{Name: t.Name, QuestionCount: len(t.Questions)})
		total += len(t.Questions)
	}
	out = append(out, TopicSummary{Name: AllTopicsName, QuestionCount: total})
	return out
}

// Topic returns the named topic.
func (b *Bank) Topic(name string) (*models.Topic, error) {
	for i := range b.topics {
		if b.topics[i].Name == name {
			return &b.topics[i], nil
		}
	}
	return nil, fmt.Errorf("topic %q not found", name)
}

// AllQuestions returns the concatenation of every topic's questions in bank
// order. The caller shuffles; the bank never does.
func (b *Bank) AllQuestions() []models.Question {
	var out []models.Question
	for _, t := range b.topics {
		out = append(out, t.Questions...)
	}
	return out
}
