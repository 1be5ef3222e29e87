// Package parser turns the day-grouped event log into a stream of Segments.
//
// Input is line oriented. Each line is one of:
//
//	<blank>, "Week of Sunday, <date>:" or "=====..."   ignored
//	YYYY-MM-DD                                          starts a new day
//	action: <code>, time: <H:MM>[, hours: <H.MM>]       an event
//
// Bedtime codes (b, N, Y) and the fell-asleep code (s) open an interval; a
// wake code (w) or an hours field closes it and yields a Segment.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/chrissnell/sleepchart/internal/types"
)

// Action codes recognised on an action line
const (
	ActionBedtime     = 'b'
	ActionSleep       = 's'
	ActionWake        = 'w'
	ActionNight       = 'N'
	ActionNightNoData = 'Y'
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Action is one parsed action line
type Action struct {
	Code  byte
	Time  Clock
	Hours string // raw hours field, empty when absent
}

// openInterval is a sleep interval whose end has not been seen yet
type openInterval struct {
	start Clock
	date  time.Time
	state types.State
}

// Parser reads event lines and yields Segments in input order. It is a
// forward-only iterator: once Next reports false or an error it stays done.
type Parser struct {
	scanner *bufio.Scanner
	line    int

	date      time.Time
	firstDate time.Time
	open      *openInterval

	queue []types.Segment
	err   error
	done  bool
}

// New returns a Parser reading from r.
func New(r io.Reader) *Parser {
	return &Parser{scanner: bufio.NewScanner(r)}
}

// Next returns the next Segment. ok is false once input is exhausted or a
// fatal error was hit; err is non-nil only for the latter.
func (p *Parser) Next() (seg types.Segment, ok bool, err error) {
	for len(p.queue) == 0 {
		if p.err != nil || p.done {
			return types.Segment{}, false, p.err
		}
		if !p.scanner.Scan() {
			p.done = true
			if err := p.scanner.Err(); err != nil {
				p.err = fmt.Errorf("reading input: %w", err)
			}
			continue
		}
		p.line++
		text := p.scanner.Text()
		if err := p.parseLine(text); err != nil {
			p.err = &LineError{Line: p.line, Text: text, Err: err}
		}
	}

	seg = p.queue[0]
	p.queue = p.queue[1:]
	return seg, true, nil
}

// Line returns the number of lines consumed so far.
func (p *Parser) Line() int {
	return p.line
}

// FirstDate returns the first day named by the input, or the zero time if
// none has been read yet.
func (p *Parser) FirstDate() time.Time {
	return p.firstDate
}

func (p *Parser) parseLine(text string) error {
	line := strings.TrimSpace(text)

	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "Week of"):
		return nil
	case strings.HasPrefix(line, "="):
		return nil
	case dateRe.MatchString(line):
		d, err := time.Parse(types.DateLayout, line)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedDate, err)
		}
		p.date = d
		if p.firstDate.IsZero() {
			p.firstDate = d
		}
		return nil
	case strings.HasPrefix(line, "action:"):
		a, err := ParseAction(line)
		if err != nil {
			return err
		}
		return p.apply(a)
	default:
		return ErrUnrecognizedLine
	}
}

// ParseAction splits an action line into its fields.
func ParseAction(line string) (Action, error) {
	fields := make(map[string]string, 3)
	for _, f := range strings.Split(line, ",") {
		key, value, found := strings.Cut(f, ":")
		if !found {
			return Action{}, fmt.Errorf("%w: no key in %q", ErrMissingField, strings.TrimSpace(f))
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	code, ok := fields["action"]
	if !ok || code == "" {
		return Action{}, fmt.Errorf("%w: action", ErrMissingField)
	}
	if len(code) != 1 || !strings.ContainsAny(code, "bswNY") {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, code)
	}

	tm, ok := fields["time"]
	if !ok || tm == "" {
		return Action{}, fmt.Errorf("%w: time", ErrMissingField)
	}
	clock, err := ParseClock(tm)
	if err != nil {
		return Action{}, err
	}

	return Action{Code: code[0], Time: clock, Hours: fields["hours"]}, nil
}

func (p *Parser) apply(a Action) error {
	switch a.Code {
	case ActionBedtime, ActionNight:
		p.open = &openInterval{start: a.Time, date: p.date, state: types.Asleep}
	case ActionNightNoData:
		p.open = &openInterval{start: a.Time, date: p.date, state: types.NoData}
	case ActionSleep:
		if p.open == nil {
			p.open = &openInterval{}
		}
		p.open.start = a.Time
		p.open.date = p.date
		p.open.state = types.Asleep
	case ActionWake:
		if p.open == nil {
			return nil
		}
		length, err := QuartersBetween(p.open.start, a.Time)
		if err != nil {
			return err
		}
		p.close(length)
		return nil
	}

	if a.Hours == "" {
		return nil
	}
	length, err := ParseQuarters(a.Hours)
	if err != nil {
		return err
	}
	p.close(length)
	return nil
}

// close emits the open interval as a Segment of the given length, followed by
// a zero-length Awake segment at the slot where it ends.
func (p *Parser) close(length int) {
	o := p.open
	p.open = nil

	run := types.Segment{
		Start:  o.start.Slot(),
		Length: length,
		State:  o.state,
		Date:   o.date,
	}

	end := run.End()
	woke := types.Segment{
		Start: types.TimeSlot(end % types.SlotsPerDay),
		State: types.Awake,
	}
	if !o.date.IsZero() {
		woke.Date = o.date.AddDate(0, 0, end/types.SlotsPerDay)
	}

	p.queue = append(p.queue, run, woke)
}
