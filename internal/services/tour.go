package services

import (
	"context"
	"errors"
	"fmt"
	"geo-photo-game/internal/ports"
	"math"
)

// Order rounds as a walking tour using a greedy nearest-neighbor step.
//
// The walk starts at the first round and always moves to the closest
// remaining location. It does not attempt global optimization; equal
// distances go to the lower location index so the order is deterministic.
// Returns the ordered rounds and the total walking distance in metres.
func TourOrder(ctx context.Context, rounds []Round, provider ports.DistanceProvider) ([]Round, float64, error) {
	if len(rounds) < 2 {
		return rounds, 0, nil
	}
	if provider == nil {
		return nil, 0, errors.New("tour order: distance provider is nil")
	}

	remaining := make(map[int]Round, len(rounds)-1)
	for _, r := range rounds[1:] {
		remaining[r.Index] = r
	}

	current := rounds[0]
	ordered := make([]Round, 0, len(rounds))
	ordered = append(ordered, current)
	total := 0.0

	for len(remaining) > 0 {
		bestIndex := -1
		best := math.MaxFloat64

		// Select next stop by minimum distance (greedy step).
		for idx, r := range remaining {
			d, err := provider.GetDistance(ctx, current.Location.Coordinates(), r.Location.Coordinates())
			if err != nil {
				return nil, 0, fmt.Errorf("tour order: %d -> %d: %w", current.Index, idx, err)
			}
			if d.DistanceMeters < best || (d.DistanceMeters == best && idx < bestIndex) {
				best = d.DistanceMeters
				bestIndex = idx
			}
		}

		current = remaining[bestIndex]
		total += best
		ordered = append(ordered, current)
		delete(remaining, bestIndex)
	}

	return ordered, total, nil
}
