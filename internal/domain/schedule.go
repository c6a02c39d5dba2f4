package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// ClinicDaySnapshot resolved open/closed state, hours and capacity for one date
// Derived, never stored. When closed, hours are nil and capacity is 0
type ClinicDaySnapshot struct {
	Date              time.Time
	IsOpen            bool
	OpenTime          *types.TimeString
	CloseTime         *types.TimeString
	EffectiveCapacity int
}

// ClosedDay snapshot of a closed date
func ClosedDay(date time.Time) *ClinicDaySnapshot {
	return &ClinicDaySnapshot{Date: DateOnly(date)}
}

// Grid returns the block-start grid of the day (empty when closed)
func (s *ClinicDaySnapshot) Grid() []types.TimeString {
	if !s.IsOpen || s.OpenTime == nil || s.CloseTime == nil {
		return []types.TimeString{}
	}
	return BuildGrid(*s.OpenTime, *s.CloseTime)
}

// Contains reports whether the range lies within opening hours
func (s *ClinicDaySnapshot) Contains(r types.TimeRange) bool {
	if !s.IsOpen || s.OpenTime == nil || s.CloseTime == nil {
		return false
	}
	return !r.Start.IsBefore(*s.OpenTime) && !r.End.IsAfter(*s.CloseTime)
}

// WeeklyDefaultEntry opening hours for a weekday (0 = Sunday ... 6 = Saturday)
type WeeklyDefaultEntry struct {
	Weekday   int
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
}

// CalendarOverrideEntry exception for one date; highest precedence for hours
type CalendarOverrideEntry struct {
	Date      time.Time
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
	Note      *string
}

// CapacityPlanEntry planned capacity for one date
type CapacityPlanEntry struct {
	Date     time.Time
	Capacity int
}
