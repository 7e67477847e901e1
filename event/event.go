// Package event contains the record struct passed from the log handlers to
// the format device.
package event

import "strings"

// Kind is a semantic tag attached to a record. Tags compose: a record can be
// both an ERROR and IMPORTANT, and the color of the rendered description is
// the concatenation of every tag's style codes in insertion order.
type Kind string

const (
	KindWarning   Kind = "WARNING"
	KindError     Kind = "ERROR"
	KindImportant Kind = "IMPORTANT"
)

// Record is a single semantic log event. Handlers fill in the description and
// the optional remote/entity/direction fields; the logger stamps the clock
// and line counters before handing it to the format device. A record lives
// for exactly one dispatch step.
type Record struct {
	// Description is the human readable message. The logger may wrap it
	// with ANSI color codes before emission.
	Description string
	// Remote is the resolved address of the other side of a network
	// event, empty for local-only events.
	Remote string
	// Entity is the local entity label involved in the event, if any.
	Entity string
	// InOut is "in" for received packets, "out" for sent packets, empty
	// otherwise.
	InOut string
	// Timestamp is the ISO clock string, set when the run state has seen
	// a clock stamp.
	Timestamp string
	// Kinds are the semantic tags in insertion order.
	Kinds []Kind

	// InputLine is the source line this record was parsed from.
	InputLine int
	// OutputLine is the prospective output position. The output device
	// owns the authoritative counter.
	OutputLine int
}

// AddKind appends a tag to the record.
func (r *Record) AddKind(k Kind) {
	r.Kinds = append(r.Kinds, k)
}

// Kind returns the pipe-joined tag set, empty string when untagged.
func (r *Record) Kind() string {
	if len(r.Kinds) == 0 {
		return ""
	}
	parts := make([]string, len(r.Kinds))
	for i, k := range r.Kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, "|")
}

// StringFields returns every string-valued field of the record. The only-if
// and highlight filters match against all of them, a record is retained or
// highlighted if any single field matches.
func (r *Record) StringFields() []string {
	return []string{r.Description, r.Remote, r.Entity, r.InOut, r.Timestamp, r.Kind()}
}
