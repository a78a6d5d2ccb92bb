package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/seth-walker/HRIS/internal/constants"
)

// Date is a calendar date on the wire ("2006-01-02"). Full RFC 3339
// timestamps are accepted on input and truncated to the day.
type Date struct {
	time.Time
}

// NewDate wraps t as a Date.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(constants.DateLayout))
}

// ParseDate parses a YYYY-MM-DD date or an RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(constants.DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
