// Package logger implements the per-record output pipeline: verbosity
// gating, clock and line stamping, only-if filtering, highlight tagging,
// color composition and dedup counting. Handlers never talk to the output
// device directly, they go through a Logger.
package logger

import (
	"regexp"
	"strings"

	"github.com/rkorte/rticonnextdds-logparser/event"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

// FormatDevice renders a finished record and writes it to the final sink.
// Implementations own the authoritative output-line counter and must
// swallow sink I/O failures; a broken pipe must not crash the dispatch
// loop.
type FormatDevice interface {
	WriteMessage(r *event.Record, st *state.State)
	Close()
}

// ANSI escape codes, keyed by style name. This table and the kind mapping
// below are part of the tool's output contract and are kept byte-exact.
var colors = map[string]string{
	"RED":       "\033[91m",
	"GREEN":     "\033[92m",
	"YELLOW":    "\033[93m",
	"BLUE":      "\033[94m",
	"MAGENTA":   "\033[95m",
	"BOLD":      "\033[1m",
	"FAINT":     "\033[2m",
	"ITALIC":    "\033[3m",
	"UNDERLINE": "\033[4m",
	"END":       "\033[0m",
}

var kindToColor = map[event.Kind]string{
	event.KindWarning:   "YELLOW|ITALIC",
	event.KindError:     "RED|BOLD",
	event.KindImportant: "BOLD",
}

// Options is the run configuration surface consumed by the pipeline. It is
// assembled by the caller, the logger never reads flags itself.
type Options struct {
	// Verbosity gates records: a record with required level L is emitted
	// iff Verbosity >= L.
	Verbosity int
	// Inline streams warnings and errors through the normal pipeline in
	// addition to counting them.
	Inline bool
	// IgnorePackets drops the recv/send/process network events as a
	// group.
	IgnorePackets bool
	// Colors enables ANSI color composition from the record's kind tags.
	Colors bool
	// Highlight tags matching records IMPORTANT.
	Highlight *regexp.Regexp
	// OnlyIf drops records none of whose string fields match.
	OnlyIf *regexp.Regexp
}

// Logger applies the output pipeline over a shared run state and forwards
// finished records to the format device.
type Logger struct {
	state  *state.State
	device FormatDevice
	opts   Options
}

// New returns a logger writing through device.
func New(st *state.State, device FormatDevice, opts Options) *Logger {
	return &Logger{state: st, device: device, opts: opts}
}

// Log runs a record through the pipeline. The verbosity gate comes first,
// before any stamping or filtering, so gated records cost nothing beyond
// the comparison. Pipeline order is fixed: gate, clock stamp, line stamps,
// only-if filter, highlight, color composition, device hand-off.
func (l *Logger) Log(r *event.Record, level int) {
	if l.opts.Verbosity < level {
		return
	}

	if l.state.Clocks.HasSystem {
		r.Timestamp = l.state.Clocks.System.Format("2006-01-02T15:04:05.000000")
	}
	r.InputLine = l.state.InputLine
	r.OutputLine = l.state.OutputLine + 1

	if l.opts.OnlyIf != nil && !matchAnyField(r, l.opts.OnlyIf) {
		return
	}
	// Highlighting is independent of the only-if outcome: a record that
	// survives the filter may still gain the tag.
	if l.opts.Highlight != nil && matchAnyField(r, l.opts.Highlight) {
		r.AddKind(event.KindImportant)
	}

	if l.opts.Colors {
		var composed strings.Builder
		for _, kind := range r.Kinds {
			for _, style := range strings.Split(kindToColor[kind], "|") {
				composed.WriteString(colors[style])
			}
		}
		if composed.Len() > 0 {
			r.Description = composed.String() + r.Description + colors["END"]
		}
	}

	l.device.WriteMessage(r, l.state)
}

// Recv logs a received packet.
func (l *Logger) Recv(addr, entity, text string, level int) {
	if l.opts.IgnorePackets {
		return
	}
	l.Log(&event.Record{Description: text, Remote: addr, Entity: entity, InOut: "in"}, level)
}

// Send logs a sent packet.
func (l *Logger) Send(addr, entity, text string, level int) {
	if l.opts.IgnorePackets {
		return
	}
	l.Log(&event.Record{Description: text, Remote: addr, Entity: entity, InOut: "out"}, level)
}

// Process logs a locally processed packet, no direction tag.
func (l *Logger) Process(addr, entity, text string, level int) {
	if l.opts.IgnorePackets {
		return
	}
	l.Log(&event.Record{Description: text, Remote: addr, Entity: entity}, level)
}

// Cfg records a configuration fact. Config facts are summarized at end of
// run, not streamed, so they skip the record pipeline entirely.
func (l *Logger) Cfg(text string, level int) {
	if l.opts.Verbosity < level {
		return
	}
	l.state.Config.Add(text)
}

// Event logs a plain application event.
func (l *Logger) Event(text string, level int) {
	l.Log(&event.Record{Description: text}, level)
}

// Warning counts a warning and, when inline output is enabled, also streams
// it as a tagged record.
func (l *Logger) Warning(text string, level int) {
	if l.opts.Verbosity < level {
		return
	}
	l.state.Warnings.Add(text)
	if l.opts.Inline {
		r := &event.Record{Description: "Warning: " + text}
		r.AddKind(event.KindWarning)
		l.Log(r, level)
	}
}

// Error counts an error and, when inline output is enabled, also streams it
// as a tagged record.
func (l *Logger) Error(text string, level int) {
	if l.opts.Verbosity < level {
		return
	}
	l.state.Errors.Add(text)
	if l.opts.Inline {
		r := &event.Record{Description: "Error: " + text}
		r.AddKind(event.KindError)
		l.Log(r, level)
	}
}

func matchAnyField(r *event.Record, re *regexp.Regexp) bool {
	for _, f := range r.StringFields() {
		if f != "" && re.MatchString(f) {
			return true
		}
	}
	return false
}
