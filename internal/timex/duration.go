// Package timex holds time helpers used by configuration and the content
// history: a JSON-friendly Duration and the ISO-8601 layout used for
// snapshot keys.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ISO8601Milli matches JavaScript's Date.prototype.toISOString output,
// e.g. "2024-05-01T12:30:00.000Z".
const ISO8601Milli = "2006-01-02T15:04:05.000Z"

// FormatISO renders t in UTC using ISO8601Milli.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISO8601Milli)
}

// ParseISO parses a timestamp produced by FormatISO. RFC 3339 input with other
// fractional precisions is accepted too.
func ParseISO(s string) (time.Time, error) {
	if t, err := time.Parse(ISO8601Milli, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// Duration wraps time.Duration so it can be read from JSON either as a string
// ("1m30s") or as an integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		return nil
	case nil:
		d.Duration = 0
		return nil
	default:
		return errors.New("invalid duration")
	}
}
