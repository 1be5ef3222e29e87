package summary

import (
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/sleepchart/internal/types"
)

// Stats summarises asleep time per recorded day
type Stats struct {
	Days          int     `json:"days"`
	TotalHours    float64 `json:"total_hours"`
	MeanHours     float64 `json:"mean_hours"`
	StdDevHours   float64 `json:"stddev_hours"`
	MedianHours   float64 `json:"median_hours"`
	MinHours      float64 `json:"min_hours"`
	MaxHours      float64 `json:"max_hours"`
	Intervals     int     `json:"intervals"`
	LongestHours  float64 `json:"longest_hours"`
	NoDataPercent float64 `json:"no_data_percent"`
}

// DailyHours returns asleep hours for every row that holds at least one
// recorded slot. Rows that are entirely NoData are skipped.
func DailyHours(rows []types.Row) []float64 {
	hours := make([]float64, 0, len(rows))
	for i := range rows {
		slots := &rows[i].Slots
		if slots.Count(types.NoData) == types.SlotsPerDay {
			continue
		}
		hours = append(hours, float64(slots.Count(types.Asleep))/types.SlotsPerHour)
	}
	return hours
}

// Summarize computes Stats over rows.
func Summarize(rows []types.Row) Stats {
	var s Stats

	if len(rows) > 0 {
		noData := 0
		for i := range rows {
			noData += rows[i].Slots.Count(types.NoData)
		}
		s.NoDataPercent = 100 * float64(noData) / float64(len(rows)*types.SlotsPerDay)
	}

	intervals := Intervals(rows, types.Asleep)
	s.Intervals = len(intervals)
	for _, iv := range intervals {
		if h := iv.Hours(); h > s.LongestHours {
			s.LongestHours = h
		}
	}

	hours := DailyHours(rows)
	s.Days = len(hours)
	if s.Days == 0 {
		return s
	}

	s.TotalHours = floats.Sum(hours)
	s.MinHours = floats.Min(hours)
	s.MaxHours = floats.Max(hours)
	if s.Days > 1 {
		s.MeanHours, s.StdDevHours = stat.MeanStdDev(hours, nil)
	} else {
		s.MeanHours = hours[0]
	}

	sorted := append([]float64(nil), hours...)
	sort.Float64s(sorted)
	s.MedianHours = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	return s
}

// WriteTo prints a short human-readable report.
func (s Stats) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w,
		"days:       %d\n"+
			"total:      %.2f h\n"+
			"mean:       %.2f h (sd %.2f)\n"+
			"median:     %.2f h\n"+
			"range:      %.2f h - %.2f h\n"+
			"intervals:  %d (longest %.2f h)\n"+
			"no data:    %.1f%%\n",
		s.Days, s.TotalHours, s.MeanHours, s.StdDevHours, s.MedianHours,
		s.MinHours, s.MaxHours, s.Intervals, s.LongestHours, s.NoDataPercent)
	return int64(n), err
}
