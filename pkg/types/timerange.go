package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTimeRange возвращается при некорректном интервале "HH:MM-HH:MM"
var ErrInvalidTimeRange = errors.New("invalid time range")

// TimeRange полуоткрытый интервал [Start, End) внутри одних суток
// Хранится в БД как "HH:MM-HH:MM"
type TimeRange struct {
	Start TimeString
	End   TimeString
}

// NewTimeRange создает интервал длительностью durationMinutes от start
func NewTimeRange(start TimeString, durationMinutes int) (TimeRange, error) {
	if durationMinutes <= 0 {
		return TimeRange{}, fmt.Errorf("%w: duration must be positive", ErrInvalidTimeRange)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	return TimeRange{Start: start, End: end}, nil
}

// ParseTimeRange парсит "HH:MM-HH:MM" (допускает "HH:MM:SS-HH:MM:SS")
func ParseTimeRange(s string) (TimeRange, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}

	start, err := NewTimeStringFromString(parts[0])
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: start: %v", ErrInvalidTimeRange, err)
	}

	end, err := NewTimeStringFromString(parts[1])
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: end: %v", ErrInvalidTimeRange, err)
	}

	if !end.IsAfter(start) {
		return TimeRange{}, fmt.Errorf("%w: end must be after start in %q", ErrInvalidTimeRange, s)
	}

	return TimeRange{Start: start, End: end}, nil
}

// DurationMinutes длительность интервала
func (r TimeRange) DurationMinutes() int {
	return r.End.Minutes() - r.Start.Minutes()
}

// Overlaps проверяет пересечение полуоткрытых интервалов
// Граничащие интервалы (09:00-09:30 и 09:30-10:00) не пересекаются
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.IsBefore(other.End) && other.Start.IsBefore(r.End)
}

// IsZero возвращает true для пустого интервала
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r TimeRange) String() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Scan реализует sql.Scanner
func (r *TimeRange) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*r = TimeRange{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeRange, src)
	}

	parsed, err := ParseTimeRange(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value реализует driver.Valuer
func (r TimeRange) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.String(), nil
}
