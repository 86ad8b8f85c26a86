package config

import (
	"log/slog"
	"strings"

	"github.com/quizcraft/quiz-session-service/internal/events"
)

// EventConfig holds configuration for session event publishing
type EventConfig struct {
	Publisher    string // channel, kafka or mock
	KafkaBrokers string
	SessionTopic string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration.
// The in-process channel publisher is the default: session events exist for
// the embedding UI, not for external infrastructure.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.SessionTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.SessionTopic,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	case "channel":
		return events.NewChannelEventPublisher(events.PublisherConfig{
			TopicName: c.SessionTopic,
			Logger:    logger,
		}), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to in-process channel", "publisher", c.Publisher)
		return events.NewChannelEventPublisher(events.PublisherConfig{
			TopicName: c.SessionTopic,
			Logger:    logger,
		}), nil
	}
}
