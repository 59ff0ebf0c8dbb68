package risks

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func levelScore(level string) int {
	switch level {
	case "high":
		return 3
	case "medium":
		return 2
	default:
		return 1
	}
}

// DerivePriority scores impact and probability (low=1, medium=2, high=3,
// anything else 1) and buckets the sum.
func DerivePriority(impact, probability string) string {
	score := levelScore(impact) + levelScore(probability)
	switch {
	case score >= 5:
		return PriorityCritical
	case score >= 4:
		return PriorityHigh
	case score >= 3:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
