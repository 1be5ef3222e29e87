// Package render draws sealed day rows as lines of glyphs with hour rulers.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/chrissnell/sleepchart/internal/types"
)

// Glyphs for the normal chart
const (
	GlyphAsleep = '█' // full block
	GlyphAwake  = ' '
	GlyphNoData = '░' // light shade
)

// ASCII glyphs for debug output. Letters switch case every hour.
const (
	DebugAsleep = 'x'
	DebugAwake  = 'o'
	DebugNoData = '-'
)

const (
	// DefaultRulerEvery is the number of rows between periodic rulers
	DefaultRulerEvery = 7

	// rulerIndent lines the ruler up with the glyphs after "YYYY-MM-DD |"
	rulerIndent = len(types.DateLayout) + 2
)

// DefaultAnchor seeds the date sequence when rows carry no date of their own
var DefaultAnchor = time.Date(2016, 12, 4, 0, 0, 0, 0, time.UTC)

// Renderer writes one line per row. Row dates advance one day at a time from
// the first row's date, or from the anchor when the first row is undated.
type Renderer struct {
	w          io.Writer
	debug      bool
	rulerEvery int
	anchor     time.Time

	date time.Time
	rows int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithDebug switches to the ASCII glyph set.
func WithDebug(debug bool) Option {
	return func(r *Renderer) {
		r.debug = debug
	}
}

// WithAnchor sets the date used for the first row when it has none.
func WithAnchor(t time.Time) Option {
	return func(r *Renderer) {
		if !t.IsZero() {
			r.anchor = t
		}
	}
}

// WithRulerEvery sets the periodic ruler interval; values below 1 are ignored.
func WithRulerEvery(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.rulerEvery = n
		}
	}
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		w:          w,
		rulerEvery: DefaultRulerEvery,
		anchor:     DefaultAnchor,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WriteRow renders one row, preceded by a ruler when one is due.
func (r *Renderer) WriteRow(row types.Row) error {
	prev := r.date
	switch {
	case r.rows > 0:
		r.date = prev.AddDate(0, 0, 1)
	case !row.Date.IsZero():
		r.date = row.Date
	default:
		r.date = r.anchor
	}

	if r.rulerDue(prev) {
		if _, err := fmt.Fprintln(r.w, Ruler()); err != nil {
			return err
		}
	}

	r.rows++
	_, err := fmt.Fprintln(r.w, FormatRow(r.date, &row.Slots, r.debug))
	return err
}

// Date returns the date given to the most recent row.
func (r *Renderer) Date() time.Time {
	return r.date
}

// Rows returns the number of rows written.
func (r *Renderer) Rows() int {
	return r.rows
}

func (r *Renderer) rulerDue(prev time.Time) bool {
	if r.rows%r.rulerEvery == 0 {
		return true
	}
	return r.date.Weekday() == time.Sunday && prev.Weekday() == time.Saturday
}

// FormatRow returns "YYYY-MM-DD |<96 glyphs>|".
func FormatRow(date time.Time, slots *types.DayRow, debug bool) string {
	var b strings.Builder
	b.Grow(len(types.DateLayout) + 3 + types.SlotsPerDay*3)
	b.WriteString(date.Format(types.DateLayout))
	b.WriteString(" |")
	for i, st := range slots {
		b.WriteRune(Glyph(st, i, debug))
	}
	b.WriteByte('|')
	return b.String()
}

// Glyph returns the character drawn for st at the given slot.
func Glyph(st types.State, slot int, debug bool) rune {
	if !debug {
		switch st {
		case types.Asleep:
			return GlyphAsleep
		case types.Awake:
			return GlyphAwake
		default:
			return GlyphNoData
		}
	}

	var g rune
	switch st {
	case types.Asleep:
		g = DebugAsleep
	case types.Awake:
		g = DebugAwake
	default:
		return DebugNoData
	}
	if (slot/types.SlotsPerHour)%2 == 1 {
		g = unicode.ToUpper(g)
	}
	return g
}

// Ruler returns the hour-label line, 12a through 11p, aligned over the glyphs.
func Ruler() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rulerIndent))
	for h := 0; h < 24; h++ {
		hour := h % 12
		if hour == 0 {
			hour = 12
		}
		suffix := "a"
		if h >= 12 {
			suffix = "p"
		}
		fmt.Fprintf(&b, "%-4s", fmt.Sprintf("%d%s", hour, suffix))
	}
	return strings.TrimRight(b.String(), " ")
}
