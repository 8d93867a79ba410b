package main

import "fmt"

// stepCount converts a direction and a non-negative step count into the
// signed step argument of postgres.Migrate.
func stepCount(direction string, steps int) (int, error) {
	if steps < 0 {
		return 0, fmt.Errorf("steps must be >= 0, got %d", steps)
	}
	switch direction {
	case "up":
		return steps, nil
	case "down":
		if steps == 0 {
			return -1, nil
		}
		return -steps, nil
	default:
		return 0, fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}
}
