package availability

import "github.com/cx-tal-miterani/table-booking/internal/models"

// DefaultTime is selected when a date has no availability at all (6 PM)
const DefaultTime = "18:00"

// Nearest picks the slot in candidates closest to previous.
//
// A previous value still offered is kept as is. Otherwise the slot with the
// smallest absolute distance wins, the first one scanned on ties. An empty
// candidate set yields DefaultTime, and a missing or unreadable previous
// value yields the first candidate.
func Nearest(previous string, candidates []models.TimeSlot) string {
	if len(candidates) == 0 {
		return DefaultTime
	}
	for _, c := range candidates {
		if c.Value == previous {
			return previous
		}
	}

	target, err := ParseToken(previous)
	if err != nil {
		return candidates[0].Value
	}

	best := ""
	bestDistance := -1
	for _, c := range candidates {
		minutes, err := ParseToken(c.Value)
		if err != nil {
			continue
		}
		distance := abs(minutes - target)
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = c.Value, distance
		}
	}
	if best == "" {
		return candidates[0].Value
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
