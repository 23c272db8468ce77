package domain

import "math"

// Points awarded for a perfect guess; every metre of error costs one point.
const MaxGuessPoints = 500

// Outcome of a single guessing round.
type GuessResult struct {
	Actual         Location
	DistanceMeters float64
	Points         int
	// Index of the territory containing the guess, -1 when no territories exist.
	Territory int
}

func GuessPoints(distanceMeters float64) int {
	return int(math.Round(math.Max(0, MaxGuessPoints-distanceMeters)))
}
