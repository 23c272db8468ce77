package ports

import (
	"context"
	"geo-photo-game/internal/domain"
)

// Port: leaderboard persistence. Same whole-value load/save contract as
// DocumentRepository.
type ScoreRepository interface {
	LoadScores(ctx context.Context) (domain.Leaderboard, error)
	SaveScores(ctx context.Context, scores domain.Leaderboard) error
}
