// Package types holds the data model shared by the parser, the row
// assembler, the renderer and the storage backends.
package types

import (
	"fmt"
	"time"
)

const (
	// SlotsPerDay is the number of quarter-hour slots in one calendar day
	SlotsPerDay = 96

	// SlotsPerHour is the number of quarter-hour slots in one hour
	SlotsPerHour = 4

	// MinutesPerSlot is the width of one slot
	MinutesPerSlot = 15

	// DateLayout is the ISO date format used on input and output lines
	DateLayout = "2006-01-02"
)

// State is the sleep state recorded in a single slot.
// The zero value is NoData so a freshly allocated DayRow reads as unknown.
type State uint8

const (
	NoData State = iota
	Asleep
	Awake
)

func (s State) String() string {
	switch s {
	case Asleep:
		return "asleep"
	case Awake:
		return "awake"
	case NoData:
		return "no_data"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// TimeSlot is a quarter-hour index into a day, 0..95
type TimeSlot int

// Segment is one contiguous run of a single state. Start+Length may run past
// the end of the day; the assembler carries the excess into the next row.
type Segment struct {
	Start  TimeSlot
	Length int
	State  State

	// Date is the day the run started on. Zero when the input had not yet
	// named a day.
	Date time.Time
}

// End returns the slot one past the last slot of the run, not wrapped.
func (s Segment) End() int {
	return int(s.Start) + s.Length
}

// DayRow is one day of slots
type DayRow [SlotsPerDay]State

// Count returns the number of slots holding st.
func (r *DayRow) Count(st State) int {
	n := 0
	for _, v := range r {
		if v == st {
			n++
		}
	}
	return n
}

// Compact returns the row as one character per slot: x asleep, o awake,
// - no data.
func (r *DayRow) Compact() string {
	b := make([]byte, len(r))
	for i, st := range r {
		switch st {
		case Asleep:
			b[i] = 'x'
		case Awake:
			b[i] = 'o'
		default:
			b[i] = '-'
		}
	}
	return string(b)
}

// ParseCompact is the inverse of Compact.
func ParseCompact(s string) (DayRow, error) {
	var r DayRow
	if len(s) != SlotsPerDay {
		return r, fmt.Errorf("compact row has %d slots, want %d", len(s), SlotsPerDay)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'x':
			r[i] = Asleep
		case 'o':
			r[i] = Awake
		case '-':
			r[i] = NoData
		default:
			return r, fmt.Errorf("invalid slot %q at %d", s[i], i)
		}
	}
	return r, nil
}

// CarryOver is the part of a Segment that did not fit in the row it started in
type CarryOver struct {
	Length int
	State  State
}

// Row is a sealed day row ready for rendering.
type Row struct {
	Date  time.Time
	Slots DayRow
}

// SlotTime returns the wall-clock time at which slot begins on the given day.
func SlotTime(day time.Time, slot int) time.Time {
	return day.Add(time.Duration(slot*MinutesPerSlot) * time.Minute)
}
