package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroRowIsNoData(t *testing.T) {
	var row DayRow
	require.Equal(t, SlotsPerDay, row.Count(NoData))
	require.Zero(t, row.Count(Asleep))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "asleep", Asleep.String())
	assert.Equal(t, "awake", Awake.String())
	assert.Equal(t, "no_data", NoData.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestSegmentEnd(t *testing.T) {
	s := Segment{Start: 90, Length: 10, State: Asleep}
	assert.Equal(t, 100, s.End())
}

func TestSlotTime(t *testing.T) {
	day := time.Date(2016, 12, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2016, 12, 10, 23, 45, 0, 0, time.UTC), SlotTime(day, 95))
	assert.Equal(t, time.Date(2016, 12, 11, 0, 0, 0, 0, time.UTC), SlotTime(day, 96))
}

func TestCompact(t *testing.T) {
	var row DayRow
	row[0] = Asleep
	row[1] = Awake

	s := row.Compact()
	require.Len(t, s, SlotsPerDay)
	assert.Equal(t, "xo--", s[:4])

	back, err := ParseCompact(s)
	require.NoError(t, err)
	assert.Equal(t, row, back)

	_, err = ParseCompact("xo")
	assert.Error(t, err)
	_, err = ParseCompact(strings.Repeat("?", SlotsPerDay))
	assert.Error(t, err)
}
