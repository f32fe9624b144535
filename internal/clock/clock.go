// Package clock provides the service's notion of "now" and the day windows
// used to count verification code requests.
package clock

import (
	"fmt"
	"time"
)

// KSTOffset is added to UTC to obtain local service time. The system timezone
// database is never consulted.
const KSTOffset = 9 * time.Hour

// Clock supplies the current instant
type Clock interface {
	Now() time.Time
}

// KST is the production clock: UTC shifted by nine hours
type KST struct{}

// Now implements Clock
func (KST) Now() time.Time {
	return time.Now().UTC().Add(KSTOffset)
}

// Func adapts a plain function to Clock
type Func func() time.Time

// Now implements Clock
func (f Func) Now() time.Time {
	return f()
}

// Fixed returns a clock frozen at t
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}

// WindowFor returns the instants at start and end ("HH:MM:SS") on date's calendar day.
func WindowFor(date time.Time, start, end string) (time.Time, time.Time, error) {
	from, err := atTime(date, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := atTime(date, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// Today returns the inclusive [00:00:00, 23:59:59] window around c.Now().
func Today(c Clock) (time.Time, time.Time) {
	from, to, _ := WindowFor(c.Now(), "00:00:00", "23:59:59")
	return from, to
}

func atTime(date time.Time, hms string) (time.Time, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(hms, "%d:%d:%d", &h, &m, &s); err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", hms, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return time.Time{}, fmt.Errorf("invalid time of day %q", hms)
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, s, 0, date.Location()), nil
}
