// Package rules implements the ordered pattern-dispatch mechanism that maps
// a raw log line to a semantic handler. Tables are composed from rule
// groups; evaluation is a linear first-match-wins scan, so composition
// order is a correctness requirement: suppression rules must precede the
// terminal catch-all.
package rules

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rkorte/rticonnextdds-logparser/logger"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

// Handler consumes the positional capture groups of a matched pattern. A
// returned error marks the line as malformed; the dispatcher logs a
// processing warning and the run continues.
type Handler func(match []string, st *state.State, log *logger.Logger) error

// Rule binds a compiled pattern to its handler. Rules are immutable once
// loaded. Patterns are literal substrings of the middleware's diagnostic
// vocabulary and must match exactly, including whitespace; they are
// versioned contract data, not tunable heuristics.
type Rule struct {
	Regex   *regexp.Regexp
	Handler Handler
}

// Table is an ordered rule list. First match wins, order is the sole
// tie-break.
type Table []Rule

// Concat composes rule groups into one table, preserving group order.
func Concat(groups ...Table) Table {
	var t Table
	for _, g := range groups {
		t = append(t, g...)
	}
	return t
}

// Log lines captured by some tools carry leading wall-clock stamps like
// "[1512559953.587329]". One stamp is the system clock; when two are
// present the first is the monotonic clock.
var clockStamp = regexp.MustCompile(`^\[(\d+)\.(\d+)\]\s*(?:\[(\d+)\.(\d+)\]\s*)?`)

// Dispatcher runs every input line through the rule table against a shared
// run state. It is single-threaded: one dispatcher goroutine owns the state
// for the whole run.
type Dispatcher struct {
	table Table
	state *state.State
	log   *logger.Logger
}

// NewDispatcher returns a dispatcher over the given table.
func NewDispatcher(table Table, st *state.State, log *logger.Logger) *Dispatcher {
	return &Dispatcher{table: table, state: st, log: log}
}

// Dispatch classifies a single line: bump the input counter, peel off any
// clock stamp, then invoke the first matching handler. A line nothing
// matches is archived; the default table ends in a catch-all so that only
// happens with a custom table.
func (d *Dispatcher) Dispatch(line string) {
	d.state.InputLine++
	line = d.stripClocks(line)

	for _, rule := range d.table {
		m := rule.Regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if err := rule.Handler(m[1:], d.state, d.log); err != nil {
			logrus.WithFields(logrus.Fields{
				"line":  d.state.InputLine,
				"error": err,
			}).Debug("handler rejected captured data")
			d.log.Warning("malformed log line "+strconv.Itoa(d.state.InputLine)+": "+err.Error(), 0)
		}
		return
	}
	d.state.Archive(line)
}

// ProcessLines consumes lines until the channel is closed. The input
// collaborator translates I/O failures into continued reading, so a closed
// channel is a genuine end-of-stream.
func (d *Dispatcher) ProcessLines(lines <-chan string) {
	for line := range lines {
		d.Dispatch(line)
	}
	logrus.Debug("lines channel is closed, dispatch done")
}

func (d *Dispatcher) stripClocks(line string) string {
	m := clockStamp.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	first, ferr := stampTime(m[1], m[2])
	if ferr != nil {
		return line
	}
	if m[3] != "" {
		second, serr := stampTime(m[3], m[4])
		if serr != nil {
			return line
		}
		mono, merr := strconv.ParseFloat(m[1]+"."+m[2], 64)
		if merr != nil {
			return line
		}
		d.state.SetMonotonicClock(mono)
		d.state.SetSystemClock(second)
	} else {
		d.state.SetSystemClock(first)
	}
	return line[len(m[0]):]
}

// stampTime converts one "[sec.frac]" stamp to a wall-clock time. The two
// fields are parsed as integers, never through a float: epoch-scale
// microsecond stamps have more significant digits than a float64 mantissa
// holds.
func stampTime(secs, frac string) (time.Time, error) {
	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	nanos, err := fracNanos(frac)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, nanos).UTC(), nil
}

// fracNanos scales a fractional-seconds digit string to nanoseconds.
func fracNanos(frac string) (int64, error) {
	if len(frac) > 9 {
		frac = frac[:9]
	}
	n, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}
	for i := len(frac); i < 9; i++ {
		n *= 10
	}
	return n, nil
}
