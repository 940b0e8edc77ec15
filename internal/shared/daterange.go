package shared

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format accepted on the API surface.
const DateLayout = "2006-01-02"

// ErrInvalidRange indicates a range whose start falls after its end.
var ErrInvalidRange = errors.New("invalid date range")

// DateRange is an inclusive calendar-date interval. A zero From means
// "from inception", a zero To means "to latest".
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange builds a DateRange from query-string values. Empty
// strings leave the corresponding bound open.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := time.ParseInLocation(DateLayout, from, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("parse from date: %w", err)
		}
		r.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation(DateLayout, to, time.UTC)
		if err != nil {
			return DateRange{}, fmt.Errorf("parse to date: %w", err)
		}
		r.To = t
	}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate rejects ranges with start after end.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether t falls within the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// UpperOnly returns a copy of the range with the lower bound removed.
// The ledger extractor uses it to fetch pre-range history for the
// brought-forward computation.
func (r DateRange) UpperOnly() DateRange {
	return DateRange{To: r.To}
}
