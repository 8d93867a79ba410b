// Package dice provides the randomness abstraction used by the combat engine.
// Every random outcome flows through a Source so tests can make it deterministic.
package dice

// chanceResolution is the number of discrete steps a percentage roll draws from.
const chanceResolution = 1_000_000

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Float64 draws a uniform value in [0, 1) from src.
//
// Postcondition: 0 <= result < 1.
func Float64(src Source) float64 {
	return float64(src.Intn(chanceResolution)) / chanceResolution
}

// Chance reports whether a uniform draw in [0, 1) falls below percent/100.
// A percent of 0 or less never succeeds; 100 or more always succeeds.
func Chance(src Source, percent float64) bool {
	if percent <= 0 {
		return false
	}
	return Float64(src) < percent/100
}
