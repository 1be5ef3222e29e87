// Package export encodes a finished chart as JSON or MessagePack.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrissnell/sleepchart/internal/summary"
	"github.com/chrissnell/sleepchart/internal/types"
)

// Format names an output encoding
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgPack Format = "msgpack"
)

// ParseFormat validates a format name. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgPack:
		return FormatMsgPack, nil
	default:
		return "", fmt.Errorf("unsupported export format %q. Use 'json' or 'msgpack'", s)
	}
}

// Day is one sealed row in exported form. Slots holds one character per
// quarter hour: x asleep, o awake, - no data.
type Day struct {
	Date           string `json:"date"`
	Slots          string `json:"slots"`
	AsleepQuarters int    `json:"asleep_quarters"`
}

// Chart is the complete exported document
type Chart struct {
	RunID     string             `json:"run_id"`
	Source    string             `json:"source"`
	Days      []Day              `json:"days"`
	Intervals []summary.Interval `json:"intervals"`
	Stats     summary.Stats      `json:"stats"`
}

// NewChart builds the export document for a run.
func NewChart(runID, source string, rows []types.Row) *Chart {
	c := &Chart{
		RunID:     runID,
		Source:    source,
		Days:      make([]Day, len(rows)),
		Intervals: summary.Intervals(rows, types.Asleep),
		Stats:     summary.Summarize(rows),
	}
	for i := range rows {
		c.Days[i] = Day{
			Date:           rows[i].Date.Format(types.DateLayout),
			Slots:          rows[i].Slots.Compact(),
			AsleepQuarters: rows[i].Slots.Count(types.Asleep),
		}
	}
	return c
}

// Formatter writes documents in a single encoding
type Formatter struct {
	format Format
}

// NewFormatter creates a formatter for the named format.
func NewFormatter(format string) (*Formatter, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: f}, nil
}

// Format returns the encoding this formatter writes.
func (f *Formatter) Format() Format {
	return f.format
}

// Write encodes data to w
func (f *Formatter) Write(w io.Writer, data any) error {
	if f.format == FormatMsgPack {
		return f.writeMsgPack(w, data)
	}
	return f.writeJSON(w, data)
}

func (f *Formatter) writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *Formatter) writeMsgPack(w io.Writer, data any) error {
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
