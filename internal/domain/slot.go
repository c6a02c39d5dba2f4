package domain

import "github.com/m04kA/SMC-ClinicBookingService/pkg/types"

// AvailableSlot represents a start time available for booking
type AvailableSlot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	AvailableSpots int // Spots left in the tightest block of the range
	TotalSpots     int
}

// BuildGrid returns block starts from open (inclusive), 30 minutes apart,
// keeping only blocks that end at or before close.
// Inputs are minute-normalized by TimeString, so seconds never round up past close.
func BuildGrid(open, close types.TimeString) []types.TimeString {
	openMin, closeMin := open.Minutes(), close.Minutes()
	if openMin < 0 || closeMin < 0 || closeMin <= openMin {
		return []types.TimeString{}
	}

	grid := make([]types.TimeString, 0, (closeMin-openMin)/BlockMinutes)
	for start := openMin; start+BlockMinutes <= closeMin; start += BlockMinutes {
		t, err := types.FromMinutes(start)
		if err != nil {
			break
		}
		grid = append(grid, t)
	}
	return grid
}

// IsAligned reports whether start sits on the grid anchored at open
func IsAligned(start, open types.TimeString) bool {
	s, o := start.Minutes(), open.Minutes()
	if s < 0 || o < 0 || s < o {
		return false
	}
	return (s-o)%BlockMinutes == 0
}

// RoundUpToBlocks rounds minutes up to a whole number of blocks (at least one)
func RoundUpToBlocks(minutes int) int {
	if minutes <= 0 {
		return BlockMinutes
	}
	blocks := (minutes + BlockMinutes - 1) / BlockMinutes
	return blocks * BlockMinutes
}

// BlocksIn number of blocks a duration occupies
func BlocksIn(durationMinutes int) int {
	return RoundUpToBlocks(durationMinutes) / BlockMinutes
}
