package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quizcraft/quiz-session-service/internal/cache"
	"github.com/quizcraft/quiz-session-service/internal/models"
	"github.com/quizcraft/quiz-session-service/internal/validator"
)

const (
	bankCacheKeyPrefix = "quizbank:"
	bankCacheTTL       = 12 * time.Hour
)

// Loader reads a bank file, validates every topic, and keeps the parsed
// result warm in the cache keyed by file path.
type Loader struct {
	validator *validator.Validator
	cache     cache.CacheService
	logger    *slog.Logger
}

// NewLoader creates a bank loader.
func NewLoader(v *validator.Validator, c cache.CacheService, logger *slog.Logger) *Loader {
	return &Loader{
		validator: v,
		cache:     c,
		logger:    logger,
	}
}

// Load reads the bank at path, dispatching on extension (.json or .xlsx).
func (l *Loader) Load(ctx context.Context, path string) (*Bank, error) {
	cacheKey := bankCacheKeyPrefix + path

	var cached []models.Topic
	if err := l.cache.Get(ctx, cacheKey, &cached); err == nil {
		l.logger.Info("Question bank loaded from cache", "path", path, "topics", len(cached))
		return l.build(cached)
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		l.logger.Warn("Question bank cache lookup failed", "path", path, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank: %w", err)
	}
	defer f.Close()

	var topics []models.Topic
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		topics, err = ParseJSON(f)
	case ".xlsx":
		topics, err = ParseExcel(f)
	default:
		return nil, fmt.Errorf("unsupported question bank format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	bank, err := l.build(topics)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, cacheKey, topics, bankCacheTTL); err != nil {
		l.logger.Warn("Failed to cache question bank", "path", path, "error", err)
	}

	l.logger.Info("Question bank loaded", "path", path, "topics", len(topics))
	return bank, nil
}

// build validates every topic and the cross-topic id space. Validation
// failures here are configuration errors: they abort startup rather than
// surfacing as wrong scores later.
func (l *Loader) build(topics []models.Topic) (*Bank, error) {
	if len(topics) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	qv := l.validator.Question()
	names := make(map[string]bool, len(topics))
	for i := range topics {
		t := &topics[i]
		if t.Name == AllTopicsName {
			return nil, fmt.Errorf("topic name %q is reserved", AllTopicsName)
		}
		if names[t.Name] {
			return nil, fmt.Errorf("duplicate topic name %q", t.Name)
		}
		names[t.Name] = true
		if err := qv.ValidateTopic(t); err != nil {
			return nil, err
		}
	}

	// All-topics sessions concatenate every topic, so ids must also be
	// unique across the whole bank.
	var all []models.Question
	for _, t := range topics {
		all = append(all, t.Questions...)
	}
	if err := qv.ValidateWorkingSet(all); err != nil {
		return nil, err
	}

	return &Bank{topics: topics}, nil
}

// ParseJSON decodes the bank JSON format: a top-level array of topics.
func ParseJSON(r io.Reader) ([]models.Topic, error) {
	var topics []models.Topic
	dec := json.NewDecoder(r)
	if err := dec.Decode(&topics); err != nil {
		return nil, fmt.Errorf("failed to decode question bank JSON: %w", err)
	}
	return topics, nil
}
