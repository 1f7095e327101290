package matcher

// Config holds matcher tolerances
type Config struct {
	DayTolerance    int     `json:"day_tolerance"`    // Days tolerance between dates (default: 3)
	AmountTolerance float64 `json:"amount_tolerance"` // Default: 0.01 (1 cent)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		DayTolerance:    3,
		AmountTolerance: 0.01,
	}
}
