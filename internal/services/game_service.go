package services

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"
	"math/rand/v2"
)

type GameService struct {
	Docs     ports.DocumentRepository
	Distance ports.DistanceProvider
	// Upper bound on locations per game.
	MaxRounds int
	// Defaults to math/rand/v2 Shuffle.
	Shuffle func(n int, swap func(i, j int))
}

type Round struct {
	// Position of the location in the document, used when guessing.
	Index    int
	Location domain.Location
}

// Rounds picks up to limit locations in random order. A limit outside
// 1..MaxRounds is clamped to MaxRounds.
func (s *GameService) Rounds(ctx context.Context, limit int) ([]Round, error) {
	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("game rounds: %w", err)
	}

	if limit < 1 || (s.MaxRounds > 0 && limit > s.MaxRounds) {
		limit = s.MaxRounds
	}

	rounds := make([]Round, len(doc.Locations))
	for i, loc := range doc.Locations {
		rounds[i] = Round{Index: i, Location: loc}
	}

	shuffle := s.Shuffle
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	shuffle(len(rounds), func(i, j int) { rounds[i], rounds[j] = rounds[j], rounds[i] })

	if limit > 0 && len(rounds) > limit {
		rounds = rounds[:limit]
	}
	return rounds, nil
}

// Tour picks rounds like Rounds and orders them as a short walk from the
// first pick.
func (s *GameService) Tour(ctx context.Context, limit int) ([]Round, float64, error) {
	rounds, err := s.Rounds(ctx, limit)
	if err != nil {
		return nil, 0, err
	}
	return TourOrder(ctx, rounds, s.Distance)
}

// Guess scores a guess for the location at index. When territories are
// defined the guess must fall inside one of them.
func (s *GameService) Guess(ctx context.Context, index int, guess domain.Coordinates) (domain.GuessResult, error) {
	if !guess.Valid() {
		return domain.GuessResult{}, fmt.Errorf("guess: %w", domain.ErrInvalidFormat)
	}

	doc, err := s.Docs.LoadDocument(ctx)
	if err != nil {
		return domain.GuessResult{}, fmt.Errorf("guess: %w", err)
	}
	if index < 0 || index >= len(doc.Locations) {
		return domain.GuessResult{}, fmt.Errorf("guess: location %d: %w", index, domain.ErrInvalidIndex)
	}
	actual := doc.Locations[index]

	territory := -1
	idx := NewTerritoryIndex(doc.Areas)
	if idx.Len() > 0 {
		hits := idx.Containing(guess)
		if len(hits) == 0 {
			return domain.GuessResult{}, fmt.Errorf("guess: %w", domain.ErrOutsideTerritory)
		}
		territory = hits[0]
	}

	d, err := s.Distance.GetDistance(ctx, guess, actual.Coordinates())
	if err != nil {
		return domain.GuessResult{}, fmt.Errorf("guess: %w", err)
	}

	return domain.GuessResult{
		Actual:         actual,
		DistanceMeters: d.DistanceMeters,
		Points:         domain.GuessPoints(d.DistanceMeters),
		Territory:      territory,
	}, nil
}
