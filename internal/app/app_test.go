package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/sleepchart/internal/export"
	"github.com/chrissnell/sleepchart/internal/managers"
	"github.com/chrissnell/sleepchart/internal/parser"
	"github.com/chrissnell/sleepchart/internal/render"
	"github.com/chrissnell/sleepchart/internal/types"
	"github.com/chrissnell/sleepchart/pkg/config"
)

const overnight = `Week of Sunday, 2016-12-04:
==========================
    2016-12-04
action: b, time: 23:00

    2016-12-05
action: w, time: 7:15
`

func TestRender(t *testing.T) {
	var out bytes.Buffer
	run, err := New(nil, nil).Render(context.Background(), strings.NewReader(overnight), "overnight", &out)
	require.NoError(t, err)

	require.Len(t, run.Rows, 2)
	assert.Equal(t, time.Date(2016, 12, 4, 0, 0, 0, 0, time.UTC), run.Rows[0].Date)
	assert.Equal(t, time.Date(2016, 12, 5, 0, 0, 0, 0, time.UTC), run.Rows[1].Date)
	assert.Equal(t, 4, run.Rows[0].Slots.Count(types.Asleep))
	assert.Equal(t, 29, run.Rows[1].Slots.Count(types.Asleep))

	require.Len(t, run.Intervals, 1)
	assert.Equal(t, 33, run.Intervals[0].Quarters)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, render.Ruler(), lines[0])
	assert.Equal(t, render.FormatRow(run.Rows[0].Date, &run.Rows[0].Slots, false), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2016-12-05 |"))
}

func TestRenderFatalKeepsRows(t *testing.T) {
	input := "2016-12-04\naction: b, time: 15:00, hours: 9.00\naction: q, time: 1:00\n"

	var out bytes.Buffer
	run, err := New(nil, nil).Render(context.Background(), strings.NewReader(input), "bad", &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnknownAction)

	var lineErr *parser.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 3, lineErr.Line)

	require.Len(t, run.Rows, 1, "the full row was drawn before the bad line")
	assert.Contains(t, out.String(), "2016-12-04 |")
}

func TestRenderUsesChartConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Chart.Debug = true
	cfg.Chart.AnchorDate = "2019-03-16"

	// no date lines: rows take their dates from the anchor
	input := "action: b, time: 0:00, hours: 8.00\n"
	var out bytes.Buffer
	run, err := New(cfg, nil).Render(context.Background(), strings.NewReader(input), "undated", &out)
	require.NoError(t, err)
	require.Len(t, run.Rows, 1)
	assert.Equal(t, time.Date(2019, 3, 16, 0, 0, 0, 0, time.UTC), run.Rows[0].Date)
	assert.Contains(t, out.String(), "2019-03-16 |xxxx")
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, nil).Render(ctx, strings.NewReader(overnight), "overnight", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderFileMissing(t *testing.T) {
	_, err := New(nil, nil).RenderFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Path = filepath.Join(t.TempDir(), "chart.json")
	a := New(cfg, nil)

	run, err := a.Render(context.Background(), strings.NewReader(overnight), "overnight", &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, a.Export(run))

	data, err := os.ReadFile(cfg.Export.Path)
	require.NoError(t, err)

	var chart export.Chart
	require.NoError(t, json.Unmarshal(data, &chart))
	assert.Equal(t, run.ID.String(), chart.RunID)
	require.Len(t, chart.Days, 2)
	assert.Equal(t, "2016-12-04", chart.Days[0].Date)
	assert.Equal(t, 1, chart.Stats.Intervals)
}

func TestStoreAndReplay(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.SQLite = &config.SQLiteData{Path: filepath.Join(t.TempDir(), "sleep.db")}
	a := New(cfg, nil)

	var first bytes.Buffer
	run, err := a.Render(ctx, strings.NewReader(overnight), "overnight", &first)
	require.NoError(t, err)
	require.NoError(t, a.Store(ctx, run))

	var replay bytes.Buffer
	require.NoError(t, a.Replay(ctx, run.ID, &replay))
	assert.Equal(t, first.String(), replay.String())
}

func TestStoreUnconfigured(t *testing.T) {
	a := New(nil, nil)
	run, err := a.Render(context.Background(), strings.NewReader(overnight), "overnight", &bytes.Buffer{})
	require.NoError(t, err)
	assert.ErrorIs(t, a.Store(context.Background(), run), managers.ErrNoStorage)
}
