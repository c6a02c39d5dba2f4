package domain

// Service a clinic service (treatment) that can be booked
type Service struct {
	ID               int64
	Name             string
	Price            float64
	EstimatedMinutes int
	Category         string

	// Per-tooth services take longer with every tooth beyond IncludedTeeth
	PerTooth        bool
	PerToothMinutes int
	IncludedTeeth   int
}

// EstimatedMinutes raw duration estimate for the service; rounding to whole
// blocks happens at the call site
func EstimatedMinutes(s *Service, teethCount *int) int {
	if s == nil {
		return 0
	}
	if !s.PerTooth || teethCount == nil {
		return s.EstimatedMinutes
	}

	extra := *teethCount - s.IncludedTeeth
	if extra < 0 {
		extra = 0
	}
	return s.EstimatedMinutes + s.PerToothMinutes*extra
}

// DurationMinutes estimated duration rounded up to whole blocks
func DurationMinutes(s *Service, teethCount *int) int {
	return RoundUpToBlocks(EstimatedMinutes(s, teethCount))
}
