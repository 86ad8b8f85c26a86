package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	// BankPath points at the question bank file (.json or .xlsx).
	BankPath string
	// RedisURL enables bank caching when non-empty.
	RedisURL string
	// ShuffleSeed pins every session's shuffles when non-zero. Debug and
	// replay use only.
	ShuffleSeed int64
	Events      EventConfig
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	seed, err := getEnvInt64("SHUFFLE_SEED", 0)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BankPath:    getEnv("QUIZ_BANK_PATH", "quiz_data.json"),
		RedisURL:    getEnv("REDIS_URL", ""),
		ShuffleSeed: seed,
		Events: EventConfig{
			Publisher:    getEnv("EVENTS_PUBLISHER", "channel"),
			KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			SessionTopic: getEnv("SESSION_EVENT_TOPIC", "quiz-sessions"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}
