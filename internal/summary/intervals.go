// Package summary derives sleep intervals and statistics from sealed rows.
package summary

import (
	"time"

	"github.com/chrissnell/sleepchart/internal/types"
)

// Interval is a contiguous run of one state, possibly spanning midnight
type Interval struct {
	Start    time.Time   `json:"start"`
	Quarters int         `json:"quarters"`
	State    types.State `json:"-"`
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Quarters*types.MinutesPerSlot) * time.Minute
}

// End returns the time the interval ends.
func (i Interval) End() time.Time {
	return i.Start.Add(i.Duration())
}

// Hours returns the length in decimal hours.
func (i Interval) Hours() float64 {
	return float64(i.Quarters) / types.SlotsPerHour
}

// Intervals returns every run of st across rows. A run that fills the end of
// one row and the head of the next is reported once.
func Intervals(rows []types.Row, st types.State) []Interval {
	var out []Interval
	var open *Interval

	for _, row := range rows {
		for i, v := range row.Slots {
			if v != st {
				if open != nil {
					out = append(out, *open)
					open = nil
				}
				continue
			}
			if open == nil {
				open = &Interval{Start: types.SlotTime(row.Date, i), State: st}
			}
			open.Quarters++
		}
	}
	if open != nil {
		out = append(out, *open)
	}
	return out
}
