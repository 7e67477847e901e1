package devices

import (
	"fmt"
	"strings"

	"github.com/rkorte/rticonnextdds-logparser/event"
	"github.com/rkorte/rticonnextdds-logparser/state"
)

// TextFormat renders records into aligned text lines and owns the
// authoritative output-line counter.
type TextFormat struct {
	sink Sink
	// ShowLines prefixes every message with input/output line numbers.
	ShowLines bool
}

// NewTextFormat returns a format device writing through sink.
func NewTextFormat(sink Sink) *TextFormat {
	return &TextFormat{sink: sink}
}

// WriteMessage renders and writes one record. The output counter is bumped
// here, on actual write, never speculatively by the pipeline.
func (t *TextFormat) WriteMessage(r *event.Record, st *state.State) {
	st.OutputLine++
	t.sink.Write(t.render(r))
}

// Close releases the sink.
func (t *TextFormat) Close() {
	t.sink.Close()
}

func (t *TextFormat) render(r *event.Record) string {
	var b strings.Builder
	if r.Timestamp != "" {
		b.WriteString(r.Timestamp + " ")
	}
	if t.ShowLines {
		fmt.Fprintf(&b, "%05d/%05d ", r.InputLine, r.OutputLine)
	}
	if r.Remote != "" || r.Entity != "" || r.InOut != "" {
		arrow := "---"
		switch r.InOut {
		case "in":
			arrow = "<--"
		case "out":
			arrow = "-->"
		}
		fmt.Fprintf(&b, "%s %-22s %-18s ", arrow, r.Remote, r.Entity)
	}
	b.WriteString(r.Description)
	return b.String()
}
