package listing

import (
	"errors"
	"strings"
	"time"
)

var ErrInvertedRange = errors.New("inverted_date_range")

var ErrInvalidDate = errors.New("invalid_date")

// DefaultRangeSpan is the end date used when only a start date is given.
const DefaultRangeSpan = 24 * time.Hour

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC 3339 timestamps, zone-less timestamps and plain dates.
// Values without a zone are read as UTC.
func ParseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateRange is an inclusive time window.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange defaults a zero end to From plus one day and rejects an end
// before the start.
func NewDateRange(from, to time.Time) (DateRange, error) {
	if to.IsZero() {
		to = from.Add(DefaultRangeSpan)
	}
	if to.Before(from) {
		return DateRange{}, ErrInvertedRange
	}
	return DateRange{From: from, To: to}, nil
}

// ParseDateRange builds a range from query values. It reports false when no
// start date was given, in which case no filtering applies.
func ParseDateRange(fromRaw, toRaw string) (DateRange, bool, error) {
	if strings.TrimSpace(fromRaw) == "" {
		if strings.TrimSpace(toRaw) != "" {
			return DateRange{}, false, ErrInvalidDate
		}
		return DateRange{}, false, nil
	}
	from, ok := ParseTime(fromRaw)
	if !ok {
		return DateRange{}, false, ErrInvalidDate
	}
	var to time.Time
	if strings.TrimSpace(toRaw) != "" {
		if to, ok = ParseTime(toRaw); !ok {
			return DateRange{}, false, ErrInvalidDate
		}
	}
	r, err := NewDateRange(from, to)
	if err != nil {
		return DateRange{}, false, err
	}
	return r, true, nil
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
