package parser

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/sleepchart/internal/types"
)

func date(s string) time.Time {
	d, err := time.Parse(types.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func collect(t *testing.T, input string) ([]types.Segment, error) {
	t.Helper()
	p := New(strings.NewReader(input))
	var out []types.Segment
	for {
		seg, ok, err := p.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, seg)
	}
}

func TestBedtimeWithHours(t *testing.T) {
	segs, err := collect(t, "2016-12-10\naction: b, time: 0:00, hours: 9.00\n")
	require.NoError(t, err)
	require.Equal(t, []types.Segment{
		{Start: 0, Length: 36, State: types.Asleep, Date: date("2016-12-10")},
		{Start: 36, Length: 0, State: types.Awake, Date: date("2016-12-10")},
	}, segs)
}

func TestBedtimeThenWake(t *testing.T) {
	input := `Week of Sunday, 2016-12-04:
==========================
    2016-12-04
action: b, time: 23:00

    2016-12-05
action: w, time: 7:15, hours: 8.25
`
	segs, err := collect(t, input)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.Equal(t, types.Segment{Start: 92, Length: 33, State: types.Asleep, Date: date("2016-12-04")}, segs[0])
	// 92+33 = 125 -> slot 29 of the next day
	assert.Equal(t, types.Segment{Start: 29, State: types.Awake, Date: date("2016-12-05")}, segs[1])
}

func TestSleepMovesStart(t *testing.T) {
	input := "2016-12-04\naction: b, time: 22:00\naction: s, time: 22:30\naction: w, time: 6:30\n"
	segs, err := collect(t, input)
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, types.TimeSlot(90), segs[0].Start)
	assert.Equal(t, 32, segs[0].Length)
	assert.Equal(t, types.Asleep, segs[0].State)
}

func TestNapWithoutBedtime(t *testing.T) {
	segs, err := collect(t, "2016-12-04\naction: s, time: 14:00\naction: w, time: 15:00\n")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, types.Segment{Start: 56, Length: 4, State: types.Asleep, Date: date("2016-12-04")}, segs[0])
	assert.Equal(t, types.TimeSlot(60), segs[1].Start)
}

func TestNoDataNight(t *testing.T) {
	segs, err := collect(t, "2016-12-04\naction: Y, time: 23:45\naction: w, time: 7:45\n")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, types.NoData, segs[0].State)
	assert.Equal(t, types.TimeSlot(95), segs[0].Start)
	assert.Equal(t, 32, segs[0].Length)
}

func TestNightCodeIsBedtime(t *testing.T) {
	segs, err := collect(t, "2016-12-04\naction: N, time: 23:00, hours: 8.00\n")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, types.Asleep, segs[0].State)
	assert.Equal(t, 32, segs[0].Length)
}

func TestWakeWithoutOpenInterval(t *testing.T) {
	segs, err := collect(t, "2016-12-04\naction: w, time: 7:00, hours: 8.00\n")
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestUndatedSegments(t *testing.T) {
	segs, err := collect(t, "action: b, time: 1:00, hours: 2.00\n")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.True(t, segs[0].Date.IsZero())
	assert.True(t, segs[1].Date.IsZero())
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		line  int
	}{
		{"bad time", "2016-12-04\naction: b, time: 7h00\n", ErrMalformedTime, 2},
		{"fraction too large", "2016-12-04\naction: b, time: 7:00, hours: 4.99\n", ErrDurationRange, 2},
		{"missing time", "action: b\n", ErrMissingField, 1},
		{"empty time", "action: b, time: \n", ErrMissingField, 1},
		{"unknown code", "action: q, time: 1:00\n", ErrUnknownAction, 1},
		{"bad date", "2016-13-40\n", ErrMalformedDate, 1},
		{"junk", "2016-12-04\n\nhello\n", ErrUnrecognizedLine, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var le *LineError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.line, le.Line)
		})
	}
}

func TestSegmentsBeforeErrorAreKept(t *testing.T) {
	input := "2016-12-04\naction: b, time: 1:00, hours: 2.00\naction: w, time: nope\n"
	p := New(strings.NewReader(input))

	seg, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, seg.Length)

	_, ok, err = p.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = p.Next()
	require.False(t, ok)
	require.ErrorIs(t, err, ErrMalformedTime)

	// stays failed
	_, ok, err = p.Next()
	require.False(t, ok)
	require.ErrorIs(t, err, ErrMalformedTime)
}

func TestFirstDate(t *testing.T) {
	p := New(strings.NewReader("\n2016-12-10\n2016-12-11\naction: b, time: 0:00, hours: 1.00\n"))
	assert.True(t, p.FirstDate().IsZero())
	_, _, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, date("2016-12-10"), p.FirstDate())
	assert.Equal(t, 4, p.Line())
}
