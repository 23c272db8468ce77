package services

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"
	"strings"
)

type ScoreService struct {
	Scores ports.ScoreRepository
}

// Return the leaderboard, highest score first.
func (s *ScoreService) List(ctx context.Context) (domain.Leaderboard, error) {
	scores, err := s.Scores.LoadScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores.Sorted(), nil
}

// Upsert records a finished game and returns the player's place.
// The board is persisted after every call, even when it did not change.
func (s *ScoreService) Upsert(ctx context.Context, name string, score int) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("upsert score: name: %w", domain.ErrMissingField)
	}

	scores, err := s.Scores.LoadScores(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert score: %w", err)
	}

	place, _ := scores.Upsert(name, score)
	if err := s.Scores.SaveScores(ctx, scores); err != nil {
		return 0, fmt.Errorf("upsert score: %w", err)
	}
	return place, nil
}
