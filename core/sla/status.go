package sla

const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusCritical = "critical"

	healthyRatio = 0.98
	warningRatio = 0.90
)

// DeriveStatus grades current against objective. A non-positive objective
// cannot be met and grades critical.
func DeriveStatus(current, objective float64) string {
	if objective <= 0 {
		return StatusCritical
	}
	ratio := current / objective
	switch {
	case ratio >= healthyRatio:
		return StatusHealthy
	case ratio >= warningRatio:
		return StatusWarning
	default:
		return StatusCritical
	}
}

func Rank(status string) int {
	switch status {
	case StatusHealthy:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}
