package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "minutes form", input: "09:30", want: "09:30"},
		{name: "seconds form truncated", input: "09:30:45", want: "09:30"},
		{name: "surrounding spaces", input: " 17:00 ", want: "17:00"},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "no padding", input: "9:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("08:00").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), got)

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("13:30:00")))
	assert.Equal(t, TimeString("13:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 7, 15, 59, 0, time.UTC)))
	assert.Equal(t, TimeString("07:15"), ts)
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)
	date := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	got := TimeString("14:30").On(date, loc)
	assert.Equal(t, time.Date(2026, 10, 20, 14, 30, 0, 0, loc), got)
}

func TestParseTimeRange_NormalizesSeconds(t *testing.T) {
	r, err := ParseTimeRange("09:00:00-09:30:00")
	require.NoError(t, err)
	assert.Equal(t, "09:00-09:30", r.String())
	assert.Equal(t, 30, r.DurationMinutes())

	var scanned TimeRange
	require.NoError(t, scanned.Scan("09:00:00-09:30:00"))
	assert.Equal(t, r, scanned)
}

func TestParseTimeRange_Invalid(t *testing.T) {
	for _, raw := range []string{"09:30-09:00", "09:00-09:00", "09:00", "09:00-", "a-b"} {
		_, err := ParseTimeRange(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeRange, raw)
	}
}

func TestTimeRange_Overlaps(t *testing.T) {
	existing := TimeRange{Start: "09:00", End: "09:30"}

	assert.False(t, existing.Overlaps(TimeRange{Start: "09:30", End: "10:00"}), "touching ranges")
	assert.False(t, existing.Overlaps(TimeRange{Start: "08:30", End: "09:00"}), "touching ranges")
	assert.True(t, existing.Overlaps(TimeRange{Start: "09:15", End: "09:45"}))
	assert.True(t, existing.Overlaps(TimeRange{Start: "08:00", End: "12:00"}), "containing range")
}

func TestNewTimeRange(t *testing.T) {
	r, err := NewTimeRange("10:00", 60)
	require.NoError(t, err)
	assert.Equal(t, TimeRange{Start: "10:00", End: "11:00"}, r)

	_, err = NewTimeRange("10:00", 0)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
