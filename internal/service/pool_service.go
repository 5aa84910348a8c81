package service

import (
	"context"
	"fmt"
	"log"

	"wellplay/internal/game"
	"wellplay/internal/model"
	"wellplay/internal/repository"
)

// PoolService adapts the question repository to the engine's QuestionPool
// boundary: it snapshots matching questions least-used first and bumps their
// usage counters so later sessions rotate through the pool.
type PoolService struct {
	questionRepo repository.QuestionRepo
}

// NewPoolService creates a new pool service
func NewPoolService(questionRepo repository.QuestionRepo) *PoolService {
	return &PoolService{questionRepo: questionRepo}
}

// Fetch implements game.QuestionPool.
func (s *PoolService) Fetch(ctx context.Context, filter model.QuestionFilter, count int) ([]model.Question, error) {
	docs, err := s.questionRepo.FetchLeastUsed(ctx, filter, count)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}
	if len(docs) < count {
		return nil, fmt.Errorf("%w: need %d, pool has %d", game.ErrInsufficientQuestions, count, len(docs))
	}

	ids := make([]string, len(docs))
	snapshots := make([]model.Question, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		snapshots[i] = *doc
	}

	// Usage tracking is advisory; a failed increment must not block a game.
	if err := s.questionRepo.IncrementUsage(ctx, ids); err != nil {
		log.Printf("failed to bump question usage: %v", err)
	}
	return snapshots, nil
}
