// Package assembler builds fixed-width day rows out of a stream of Segments.
//
// The assembler keeps a write cursor into the current 96-slot row. Each
// Segment is placed at its start slot; the span between the cursor and the
// start is filled with the last state seen, runs that pass midnight spill
// into the next row, and a row is sealed and handed to the sink as soon as
// its last slot is written.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/sleepchart/internal/types"
)

// ErrInvalidSegment is returned for a Segment whose start slot is outside the
// day or whose length is negative.
var ErrInvalidSegment = errors.New("invalid segment")

// SegmentSource is a finite forward-only stream of Segments.
type SegmentSource interface {
	Next() (types.Segment, bool, error)
}

// RowSink receives sealed rows in order.
type RowSink interface {
	WriteRow(types.Row) error
}

// SinkFunc adapts a function to RowSink.
type SinkFunc func(types.Row) error

func (f SinkFunc) WriteRow(r types.Row) error {
	return f(r)
}

// State is everything the assembler mutates while filling a row
type State struct {
	Row            types.DayRow
	SlotsRemaining int
	LastKnown      types.State
	Carry          types.CarryOver
	Date           time.Time
}

// Assembler is the row-filling state machine. It is not safe for concurrent use.
type Assembler struct {
	state  State
	sink   RowSink
	logger *zap.SugaredLogger

	sealed    int
	realigned int
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger used for realignment warnings.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// New creates an Assembler that hands sealed rows to sink.
func New(sink RowSink, opts ...Option) *Assembler {
	a := &Assembler{
		sink:   sink,
		logger: zap.NewNop().Sugar(),
		state:  State{SlotsRemaining: types.SlotsPerDay},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run pulls every Segment from src, then seals the final partial row. Rows
// sealed before an error remain delivered to the sink.
func (a *Assembler) Run(ctx context.Context, src SegmentSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		seg, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := a.Add(seg); err != nil {
			return err
		}
	}
	return a.Flush()
}

// Add places one Segment.
func (a *Assembler) Add(seg types.Segment) error {
	if seg.Start < 0 || int(seg.Start) >= types.SlotsPerDay || seg.Length < 0 {
		return fmt.Errorf("%w: start=%d length=%d", ErrInvalidSegment, seg.Start, seg.Length)
	}

	if err := a.alignTo(seg.Date); err != nil {
		return err
	}

	pos := a.Cursor()
	start := int(seg.Start)

	if pos > start {
		a.realigned++
		a.logger.Warnw("segment starts behind the write cursor, sealing row early",
			"cursor", pos, "start", start, "length", seg.Length, "state", seg.State.String())
		if err := a.seal(); err != nil {
			return err
		}
		pos = 0
	}

	if pos < start {
		if err := a.write(start-pos, a.state.LastKnown); err != nil {
			return err
		}
	}

	if err := a.write(seg.Length, seg.State); err != nil {
		return err
	}
	a.state.LastKnown = seg.State
	return nil
}

// Flush seals the current row if anything has been written to it.
func (a *Assembler) Flush() error {
	if a.Cursor() == 0 {
		return nil
	}
	return a.seal()
}

// Cursor returns the index of the next slot to be written.
func (a *Assembler) Cursor() int {
	return types.SlotsPerDay - a.state.SlotsRemaining
}

// State returns a copy of the current assembler state.
func (a *Assembler) State() State {
	return a.state
}

// Sealed returns the number of rows handed to the sink.
func (a *Assembler) Sealed() int {
	return a.sealed
}

// Realigned returns how many times an out-of-order segment forced a row
// to be sealed early.
func (a *Assembler) Realigned() int {
	return a.realigned
}

// write lays down length slots of st from the cursor. Whatever does not fit
// becomes the carry, which is written at the head of the next row as soon as
// the full row is sealed.
func (a *Assembler) write(length int, st types.State) error {
	for length > 0 {
		pos := a.Cursor()
		n := min(length, a.state.SlotsRemaining)
		for i := pos; i < pos+n; i++ {
			a.state.Row[i] = st
		}
		a.state.SlotsRemaining -= n
		length -= n
		a.state.Carry = types.CarryOver{Length: length, State: st}

		if a.state.SlotsRemaining == 0 {
			if err := a.seal(); err != nil {
				return err
			}
		}
	}
	a.state.Carry = types.CarryOver{}
	return nil
}

// alignTo advances the current row to day d. The current row is completed
// with the last known state; days that were never touched are sealed as
// all NoData and break the continuation.
func (a *Assembler) alignTo(d time.Time) error {
	if d.IsZero() {
		return nil
	}
	if a.state.Date.IsZero() {
		a.state.Date = d
		return nil
	}

	for a.state.Date.Before(d) {
		if a.Cursor() > 0 {
			if err := a.write(a.state.SlotsRemaining, a.state.LastKnown); err != nil {
				return err
			}
			continue
		}
		a.state.LastKnown = types.NoData
		if err := a.seal(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) seal() error {
	row := types.Row{Date: a.state.Date, Slots: a.state.Row}

	a.state.Row = types.DayRow{}
	a.state.SlotsRemaining = types.SlotsPerDay
	if !a.state.Date.IsZero() {
		a.state.Date = a.state.Date.AddDate(0, 0, 1)
	}
	a.sealed++

	return a.sink.WriteRow(row)
}
