package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/chrissnell/sleepchart/internal/types"
)

const minutesPerDay = 24 * 60

var (
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	durationRe = regexp.MustCompile(`^(\d{1,2})\.(\d{2})$`)
)

// Clock is a wall-clock time of day with minute resolution
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Slot returns the quarter-hour slot the time falls in.
func (c Clock) Slot() types.TimeSlot {
	return types.TimeSlot((c.Hour*types.SlotsPerHour + c.Minute/types.MinutesPerSlot) % types.SlotsPerDay)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseClock parses "H:MM" or "HH:MM". 24:00 is accepted and lands on slot 0.
func ParseClock(s string) (Clock, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute >= 60 || hour > 24 || (hour == 24 && minute != 0) {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseSlot converts a time string straight to its slot index.
func ParseSlot(s string) (types.TimeSlot, error) {
	c, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return c.Slot(), nil
}

// ParseQuarters converts a decimal-hour string "H.MM" to quarter-hours.
// MM of 00, 25, 50 or 75 is a decimal fraction of an hour; any other MM is
// read as minutes and snapped to a quarter by ClosestQuarter.
func ParseQuarters(s string) (int, error) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}
	hours, _ := strconv.Atoi(m[1])
	frac, _ := strconv.Atoi(m[2])

	switch frac {
	case 0, 25, 50, 75:
		return hours*types.SlotsPerHour + frac/25, nil
	}

	q, err := ClosestQuarter(frac)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return hours*types.SlotsPerHour + q/types.MinutesPerSlot, nil
}

// ClosestQuarter snaps a minute count within an hour to 0, 15, 30 or 45.
func ClosestQuarter(minutes int) (int, error) {
	switch {
	case minutes < 0 || minutes >= 60:
		return 0, fmt.Errorf("%w: %d minutes", ErrDurationRange, minutes)
	case minutes < 8:
		return 0, nil
	case minutes <= 22:
		return 15, nil
	case minutes <= 36:
		return 30, nil
	default:
		return 45, nil
	}
}

// QuartersBetween returns the length in quarter-hours from start to end,
// wrapping past midnight when end is earlier in the day than start.
func QuartersBetween(start, end Clock) (int, error) {
	minutes := (end.Minutes() - start.Minutes() + minutesPerDay) % minutesPerDay
	q, err := ClosestQuarter(minutes % 60)
	if err != nil {
		return 0, err
	}
	return (minutes/60)*types.SlotsPerHour + q/types.MinutesPerSlot, nil
}
